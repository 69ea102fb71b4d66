package order

import (
	"regexp"
	"time"
)

// Rules carries the order intake limits.
type Rules struct {
	ReceiptPrefix string
	BranchCode    string
	Location      *time.Location

	MaxItems    int
	MinQuantity int
	MaxQuantity int

	// WearPercents are the wear degrees an operator can pick.
	WearPercents []int
	// StandardColors are the colors offered in the picker; a custom color must differ from all of them.
	StandardColors []string

	MaxPhotosPerItem  int
	MaxPhotoBytes     int64
	MaxTotalPhotoSize int64
	PhotoMimeTypes    []string

	MaxNotes     int
	NotesWarnAt  int
	CompletionAt int // hour of day orders are ready from
}

func DefaultRules() Rules {
	return Rules{
		ReceiptPrefix:     "AKSI",
		BranchCode:        "MAIN",
		Location:          time.Local,
		MaxItems:          50,
		MinQuantity:       1,
		MaxQuantity:       1000,
		WearPercents:      []int{10, 30, 50, 75},
		StandardColors:    []string{"білий", "чорний", "сірий", "синій", "червоний", "зелений", "коричневий", "бежевий", "жовтий", "рожевий"},
		MaxPhotosPerItem:  5,
		MaxPhotoBytes:     5 << 20,
		MaxTotalPhotoSize: 25 << 20,
		PhotoMimeTypes:    []string{"image/jpeg", "image/png", "image/webp"},
		MaxNotes:          1000,
		NotesWarnAt:       500,
		CompletionAt:      14,
	}
}

var (
	receiptNumberPattern = regexp.MustCompile(`^[A-Z]+-[A-Z0-9]{1,10}-\d{8}-\d{6}-\d{3}$`)
	tagNumberPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
)

func ValidReceiptNumber(s string) bool { return receiptNumberPattern.MatchString(s) }

func ValidTagNumber(s string) bool { return tagNumberPattern.MatchString(s) }
