package credential

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"passvault/internal/domain/vaulterr"
)

const (
	MaxSiteLen     = 255
	MaxUsernameLen = 255
	MaxSiteURLLen  = 2048
	MaxNotesLen    = 4096
	MaxPasswordLen = 1024
)

func validateRequired(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return vaulterr.Validation("%s is required", field)
	}
	return validateLength(field, value, max)
}

func validateLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return vaulterr.Validation("%s must be at most %d characters", field, max)
	}
	return nil
}

// validateSiteURL accepts an empty value or an absolute http(s) URL.
func validateSiteURL(raw string) error {
	if raw == "" {
		return nil
	}
	if err := validateLength("site_url", raw, MaxSiteURLLen); err != nil {
		return err
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return vaulterr.Validation("site_url must be an absolute http or https URL")
	}
	return nil
}

func (s *Service) validatePassword(password string) error {
	if err := validateRequired("password", password, MaxPasswordLen); err != nil {
		return err
	}
	if s.policy == nil {
		return nil
	}
	if err := s.policy.ValidatePassword(password); err != nil {
		return vaulterr.Validation("%v", err)
	}
	return nil
}

func (s *Service) validateAdd(in AddInput) error {
	if err := validateRequired("site", in.Site, MaxSiteLen); err != nil {
		return err
	}
	if err := validateRequired("username", in.Username, MaxUsernameLen); err != nil {
		return err
	}
	if err := s.validatePassword(in.Password); err != nil {
		return err
	}
	if err := validateSiteURL(in.SiteURL); err != nil {
		return err
	}
	return validateLength("notes", in.Notes, MaxNotesLen)
}

func (s *Service) validateUpdate(in UpdateInput) error {
	if in.Site != nil {
		if err := validateRequired("site", *in.Site, MaxSiteLen); err != nil {
			return err
		}
	}
	if in.Username != nil {
		if err := validateRequired("username", *in.Username, MaxUsernameLen); err != nil {
			return err
		}
	}
	if in.Password != nil {
		if err := s.validatePassword(*in.Password); err != nil {
			return err
		}
	}
	if in.SiteURL != nil {
		if err := validateSiteURL(*in.SiteURL); err != nil {
			return err
		}
	}
	if in.Notes != nil {
		return validateLength("notes", *in.Notes, MaxNotesLen)
	}
	return nil
}
