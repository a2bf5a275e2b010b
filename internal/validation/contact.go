package validation

import "regexp"

// User-facing violation messages (kept identical to the original frontend copy).
const (
	MsgInvalidEmail       = "E-mail inválido."
	MsgNameRequired       = "Nome é um campo obrigatório."
	MsgContactRequired    = "Pelo menos um contato precisa ser enviado: e-mail ou telefone."
	MsgInvalidPhone       = "Telefone inválido. Use o formato (xx)xxxxx-xxxx ou (xx)xxxx-xxxx."
	MsgPasswordLength     = "A senha precisa ter entre 3 e 50 caracteres."
	MsgInvalidCredentials = "Usuário ou senha inválidos."
	MsgDuplicateAccount   = "Usuário já existe."
)

var (
	phoneRe    = regexp.MustCompile(`^\(\d{2}\)\d{4,5}-\d{4}$`)
	nonDigitRe = regexp.MustCompile(`\D`)
	// Same permissive address grammar the original validator accepted:
	// local part, "@", dotted domain. Full RFC parsing is not the goal here.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ContactInput is the normalized mutable field set of a contact.
type ContactInput struct {
	Name        string
	Surname     string
	Email       string
	Phone       string
	PhoneDigits string
}

// Result accumulates the outcome of validating one raw payload.
// Every applicable rule runs; violations are collected, never short-circuited.
type Result struct {
	Input      ContactInput
	Violations []string
}

// OK reports whether the payload passed every rule.
func (r Result) OK() bool { return len(r.Violations) == 0 }

// Normalize coerces every non-string value of a raw payload to the empty
// string and derives the digit-only phone projection. PhoneDigits is always
// computed, even when the phone is absent.
func Normalize(raw map[string]any) ContactInput {
	in := ContactInput{
		Name:    stringOrEmpty(raw["nome"]),
		Surname: stringOrEmpty(raw["sobrenome"]),
		Email:   stringOrEmpty(raw["email"]),
		Phone:   stringOrEmpty(raw["telefone"]),
	}
	in.PhoneDigits = PhoneDigits(in.Phone)
	return in
}

// Validate runs every contact rule against an already-normalized input and
// returns the collected violations.
func Validate(in ContactInput) []string {
	var violations []string

	if in.Email != "" && !emailRe.MatchString(in.Email) {
		violations = append(violations, MsgInvalidEmail)
	}
	if in.Name == "" {
		violations = append(violations, MsgNameRequired)
	}
	if in.Email == "" && in.Phone == "" {
		violations = append(violations, MsgContactRequired)
	}
	if in.Phone != "" && !phoneRe.MatchString(in.Phone) {
		violations = append(violations, MsgInvalidPhone)
	}

	return violations
}

// Check normalizes and validates a raw payload in one step.
func Check(raw map[string]any) Result {
	in := Normalize(raw)
	return Result{Input: in, Violations: Validate(in)}
}

// PhoneDigits strips every non-digit character from a phone string.
func PhoneDigits(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// ValidEmail reports whether s matches the accepted address grammar.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidateCredentials checks a registration payload: email format plus the
// [3,50] password length bound. Both rules always run.
func ValidateCredentials(email, password string) []string {
	var violations []string
	if !emailRe.MatchString(email) {
		violations = append(violations, MsgInvalidEmail)
	}
	if len(password) < 3 || len(password) > 50 {
		violations = append(violations, MsgPasswordLength)
	}
	return violations
}

func stringOrEmpty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
