package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits mirror the column definitions in the schema migrations.
const (
	MaxTitleLength      = 500
	MaxAuthorLength     = 255
	MaxEmailLength      = 255
	MaxNameLength       = 255
	MinPasswordLength   = 6
	ValidationFailedMsg = "Datos de validación incorrectos"
)

// Violation messages. Clients match on them, keep them stable.
const (
	MsgTitleRequired     = "El título es requerido"
	MsgTitleTooLong      = "El título no puede exceder 500 caracteres"
	MsgAuthorTooLong     = "El autor no puede exceder 255 caracteres"
	MsgPublishedAtFormat = "La fecha de publicación debe ser válida"

	MsgEmailRequired     = "El email es requerido"
	MsgEmailFormat       = "El email debe tener un formato válido"
	MsgEmailTooLong      = "El email no puede exceder 255 caracteres"
	MsgPasswordRequired  = "La contraseña es requerida"
	MsgPasswordTooShort  = "La contraseña debe tener al menos 6 caracteres"
	MsgFirstNameRequired = "El nombre es requerido"
	MsgFirstNameTooLong  = "El nombre no puede exceder 255 caracteres"
	MsgLastNameRequired  = "El apellido es requerido"
	MsgLastNameTooLong   = "El apellido no puede exceder 255 caracteres"
)

var emailRX = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// violations accumulates messages in rule order.
type violations []string

func (v *violations) check(ok bool, msg string) {
	if !ok {
		*v = append(*v, msg)
	}
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// The rule functions below are the single source of truth for both request
// validation and the pre-write check in the repositories.

func checkTitle(v *violations, title string) {
	v.check(!blank(title), MsgTitleRequired)
	v.check(!tooLong(title, MaxTitleLength), MsgTitleTooLong)
}

func checkAuthor(v *violations, author string) {
	v.check(!tooLong(author, MaxAuthorLength), MsgAuthorTooLong)
}

func checkPublishedAt(v *violations, raw string) {
	if blank(raw) {
		return
	}
	_, err := ParseDate(raw)
	v.check(err == nil, MsgPublishedAtFormat)
}

func checkEmail(v *violations, email string) {
	if blank(email) {
		v.check(false, MsgEmailRequired)
		return
	}
	v.check(emailRX.MatchString(email), MsgEmailFormat)
	v.check(!tooLong(email, MaxEmailLength), MsgEmailTooLong)
}

func checkPassword(v *violations, password string) {
	v.check(utf8.RuneCountInString(password) >= MinPasswordLength, MsgPasswordTooShort)
}

func checkFirstName(v *violations, name string) {
	v.check(!blank(name), MsgFirstNameRequired)
	v.check(!tooLong(name, MaxNameLength), MsgFirstNameTooLong)
}

func checkLastName(v *violations, name string) {
	v.check(!blank(name), MsgLastNameRequired)
	v.check(!tooLong(name, MaxNameLength), MsgLastNameTooLong)
}

// checkOptional runs rule on a supplied field. A required field that is
// missing or null is checked as the empty string so it fails its presence
// rule with the usual message.
func checkOptional(v *violations, f Optional[string], required bool, rule func(*violations, string)) {
	switch {
	case f.Present():
		rule(v, f.Value)
	case required || (f.Set && f.Null):
		rule(v, "")
	}
}
