package forms

import (
	"strings"
	"unicode"

	"blogicum/internal/models"
)

type CommentInput struct {
	Text string `form:"text" validate:"required"`
}

func (in CommentInput) Validate() (string, FieldErrors) {
	in.Text = strings.TrimSpace(in.Text)
	return in.Text, check(in)
}

// ProfileInput edits the public fields of the current user.
type ProfileInput struct {
	Username  string `form:"username" validate:"required,max=150,username,notreserved"`
	Email     string `form:"email" validate:"omitempty,max=254,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
}

func ProfileInputOf(u *models.User) ProfileInput {
	return ProfileInput{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (in *ProfileInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

func (in ProfileInput) Validate() (ProfileInput, FieldErrors) {
	in.normalize()
	return in, check(in)
}

// Apply copies the profile fields onto u.
func (in ProfileInput) Apply(u *models.User) {
	u.Username = in.Username
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
}

type RegistrationInput struct {
	Username  string `form:"username" validate:"required,max=150,username,notreserved"`
	Email     string `form:"email" validate:"required,max=254,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func (in RegistrationInput) Validate() (ProfileInput, FieldErrors) {
	profile := ProfileInput{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	profile.normalize()
	in.Username, in.Email = profile.Username, profile.Email
	in.FirstName, in.LastName = profile.FirstName, profile.LastName

	errs := check(in)
	if len(errs.Get("password2")) == 0 && in.Password2 != "" {
		for _, problem := range PasswordProblems(in.Password2, profile.Username) {
			errs.Add("password2", problem)
		}
	}
	return profile, errs
}

// PasswordProblems lists the reasons password is too weak.
func PasswordProblems(password, username string) []string {
	var problems []string
	if len([]rune(password)) < 8 {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		problems = append(problems, "This password is entirely numeric.")
	}

	if username != "" && strings.EqualFold(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "This password is too common.")
	}
	return problems
}

var commonPasswords = map[string]bool{
	"password": true, "password1": true, "12345678": true, "123456789": true,
	"qwertyui": true, "qwerty123": true, "iloveyou": true, "11111111": true,
	"abc12345": true, "sunshine": true, "princess": true, "football": true,
	"baseball": true, "welcome1": true, "letmein1": true, "passw0rd": true,
}

type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (in LoginInput) Validate() FieldErrors {
	in.Username = strings.TrimSpace(in.Username)
	return check(in)
}
