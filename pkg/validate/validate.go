// Package validate registers request validators and converts their failures
// into field-keyed messages.
package validate

import (
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/threaddit/backend/pkg/auth"
)

// reserved words that collide with client routes
var bannedUsernames = map[string]bool{
	"admin":    true,
	"api":      true,
	"user":     true,
	"users":    true,
	"thread":   true,
	"threads":  true,
	"login":    true,
	"logout":   true,
	"register": true,
	"search":   true,
	"saved":    true,
	"inbox":    true,
	"messages": true,
	"settings": true,
	"popular":  true,
	"all":      true,
	"home":     true,
}

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z0-9_]{4,15}$`)
	threadNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

// ThreadPrefix is prepended to every stored thread name.
const ThreadPrefix = "t/"

var (
	strictPolicy = bluemonday.StrictPolicy()
	// SanitizationPolicy is used for markdown bodies that may carry safe inline HTML
	SanitizationPolicy = bluemonday.UGCPolicy()
)

var registerOnce sync.Once

// RegisterWithGin installs the custom validators on gin's binding engine.
// Safe to call more than once.
func RegisterWithGin() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterCustomValidators(v)
		}
	})
}

// RegisterCustomValidators adds the forum's tags and aliases to v and reports
// fields by their wire names.
func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(wireName)
	_ = v.RegisterValidation("username", UsernameValidator)
	_ = v.RegisterValidation("thread_name", ThreadNameValidator)
	_ = v.RegisterValidation("password", PasswordValidator)
	v.RegisterAlias("post_title", "min=1,max=300")
	v.RegisterAlias("bio", "max=600")
	v.RegisterAlias("thread_description", "max=1000")
	v.RegisterAlias("comment_body", "min=1,max=10000")
	v.RegisterAlias("message_body", "min=1,max=5000")
	v.RegisterAlias("content_type", "oneof=media url")
}

// UsernameValidator accepts 4-15 letters, digits or underscores that are not reserved.
var UsernameValidator validator.Func = func(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return usernamePattern.MatchString(s) && !bannedUsernames[strings.ToLower(s)]
}

// ThreadNameValidator accepts 3-20 letters, digits or underscores with an optional t/ prefix.
var ThreadNameValidator validator.Func = func(fl validator.FieldLevel) bool {
	return threadNamePattern.MatchString(strings.TrimPrefix(fl.Field().String(), ThreadPrefix))
}

// PasswordValidator applies the password strength rules.
var PasswordValidator validator.Func = func(fl validator.FieldLevel) bool {
	return passwordStrength(fl.Field().String()) == nil
}

// ThreadName returns the canonical stored form of a thread name.
func ThreadName(name string) string {
	return ThreadPrefix + strings.TrimPrefix(strings.TrimSpace(name), ThreadPrefix)
}

// SanitizeText strips all markup from single-line user text.
func SanitizeText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(strings.TrimSpace(s)))
}

// SanitizeMarkdown removes unsafe HTML from markdown bodies.
func SanitizeMarkdown(s string) string {
	return SanitizationPolicy.Sanitize(strings.TrimSpace(s))
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

var passwordStrength = auth.ValidatePasswordStrength
