package client

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"drycleaning/internal/pkg/validation"
	"drycleaning/internal/pkg/validator"
)

var namePattern = regexp.MustCompile(`^[\p{L}\s\-']{2,50}$`)

const (
	maxAddress       = 500
	maxSourceDetails = 255
)

// ValidateRequest runs the client form rules.
func ValidateRequest(req ClientRequest) validation.Result {
	var v validation.Collector

	v.AddIf(!namePattern.MatchString(strings.TrimSpace(req.FirstName)),
		"first name must be 2-50 letters, spaces, hyphens or apostrophes")
	v.AddIf(!namePattern.MatchString(strings.TrimSpace(req.LastName)),
		"last name must be 2-50 letters, spaces, hyphens or apostrophes")
	v.AddIf(!validator.IsUAPhone(req.Phone), "phone must be a Ukrainian number like +380501234567")

	if email := strings.TrimSpace(req.Email); email != "" {
		v.AddIf(validator.Var(email, "email") != nil, "email is not valid")
	}
	v.AddIf(utf8.RuneCountInString(req.Address) > maxAddress, "address must be at most 500 characters")

	for _, ch := range req.Channels {
		if !ch.Valid() {
			v.Add("unknown communication channel " + string(ch))
		}
	}
	if hasChannel(req.Channels, ChannelEmail) && strings.TrimSpace(req.Email) == "" {
		v.Add("email is required for the EMAIL channel")
	}

	if req.Source != "" && !req.Source.Valid() {
		v.Add("unknown client source " + string(req.Source))
	}
	details := strings.TrimSpace(req.SourceDetails)
	v.AddIf(req.Source == SourceOther && details == "", "source details are required when the source is OTHER")
	v.AddIf(utf8.RuneCountInString(details) > maxSourceDetails, "source details must be at most 255 characters")

	if len(req.Channels) == 0 {
		v.Warn("no communication channel selected: the client will not be notified")
	}
	return v.Result()
}

func hasChannel(list []Channel, want Channel) bool {
	for _, c := range list {
		if c == want {
			return true
		}
	}
	return false
}
