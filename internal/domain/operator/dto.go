package operator

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateRequest struct {
	Login      string `json:"login" binding:"required,min=3,max=60"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name" binding:"required"`
	Role       string `json:"role"`
	BranchCode string `json:"branch_code" binding:"required"`
}
