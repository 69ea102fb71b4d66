package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRequest() ClientRequest {
	return ClientRequest{
		FirstName: "Олена",
		LastName:  "Шевченко",
		Phone:     "+380501234567",
		Email:     "olena@example.com",
		Channels:  []Channel{ChannelPhone, ChannelViber},
		Source:    SourceInstagram,
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClientRequest)
		valid   bool
		errPart string
	}{
		{name: "valid", mutate: func(*ClientRequest) {}, valid: true},
		{name: "apostrophe and hyphen", mutate: func(r *ClientRequest) { r.LastName = "Д'Артаньян-Петренко" }, valid: true},
		{name: "short first name", mutate: func(r *ClientRequest) { r.FirstName = "О" }, errPart: "first name"},
		{name: "digits in last name", mutate: func(r *ClientRequest) { r.LastName = "R2D2" }, errPart: "last name"},
		{name: "foreign phone", mutate: func(r *ClientRequest) { r.Phone = "+14155550100" }, errPart: "phone"},
		{name: "bad email", mutate: func(r *ClientRequest) { r.Email = "olena@" }, errPart: "email is not valid"},
		{name: "email channel without email", mutate: func(r *ClientRequest) { r.Email = ""; r.Channels = []Channel{ChannelEmail} }, errPart: "EMAIL channel"},
		{name: "unknown channel", mutate: func(r *ClientRequest) { r.Channels = []Channel{"PIGEON"} }, errPart: "PIGEON"},
		{name: "other source without details", mutate: func(r *ClientRequest) { r.Source = SourceOther }, errPart: "source details"},
		{name: "long address", mutate: func(r *ClientRequest) { r.Address = strings.Repeat("а", 501) }, errPart: "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			res := ValidateRequest(req)
			assert.Equal(t, tt.valid, res.Valid, res.Errors)
			if tt.errPart != "" {
				assert.Contains(t, strings.Join(res.Errors, "|"), tt.errPart)
			}
		})
	}
}

func TestValidateRequest_WarnsWithoutChannels(t *testing.T) {
	req := validRequest()
	req.Channels = nil

	res := ValidateRequest(req)
	assert.True(t, res.Valid)
	assert.Len(t, res.Warnings, 1)
}
