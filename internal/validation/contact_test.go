package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_NameRequired(t *testing.T) {
	res := Check(map[string]any{"email": "teste@email.com"})
	assert.Contains(t, res.Violations, MsgNameRequired)
}

func TestValidate_InvalidEmail(t *testing.T) {
	res := Check(map[string]any{"nome": "João", "email": "email-invalido"})
	assert.Contains(t, res.Violations, MsgInvalidEmail)
}

func TestValidate_AtLeastOneContactMethod(t *testing.T) {
	res := Check(map[string]any{"nome": "João"})
	assert.Contains(t, res.Violations, MsgContactRequired)

	// Holds regardless of the remaining field values.
	res = Check(map[string]any{"nome": "", "sobrenome": "Silva"})
	assert.Contains(t, res.Violations, MsgContactRequired)
}

func TestValidate_InvalidPhoneFormat(t *testing.T) {
	for _, phone := range []string{"123456", "(21)123-4567", "21912345678", "(2)91234-5678", "(21) 91234-5678"} {
		res := Check(map[string]any{"nome": "João", "telefone": phone})
		assert.Contains(t, res.Violations, MsgInvalidPhone, "phone %q should be rejected", phone)
	}
}

func TestValidate_AcceptsBothPhoneFormats(t *testing.T) {
	for _, phone := range []string{"(21)91234-5678", "(21)1234-5678"} {
		res := Check(map[string]any{"nome": "João", "telefone": phone})
		assert.Empty(t, res.Violations, "phone %q should be accepted", phone)
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	res := Check(map[string]any{"email": "invalido", "telefone": "123"})
	assert.Equal(t, []string{MsgInvalidEmail, MsgNameRequired, MsgInvalidPhone}, res.Violations)
}

func TestValidate_ValidContact(t *testing.T) {
	res := Check(map[string]any{
		"nome":     "Marcelo",
		"email":    "marcelo@email.com",
		"telefone": "(21)91234-5678",
	})
	assert.True(t, res.OK())
}

func TestNormalize_CoercesNonStrings(t *testing.T) {
	in := Normalize(map[string]any{
		"nome":      123,
		"sobrenome": nil,
		"telefone":  "(21)98765-4321",
	})

	assert.Equal(t, "", in.Name)
	assert.Equal(t, "", in.Surname)
	assert.Equal(t, "", in.Email)
	assert.Equal(t, "21987654321", in.PhoneDigits)
}

func TestNormalize_PhoneDigitsEmptyWhenPhoneAbsent(t *testing.T) {
	in := Normalize(map[string]any{"nome": "João"})
	assert.Equal(t, "", in.PhoneDigits)
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "21912345678", PhoneDigits("(21)91234-5678"))
	assert.Equal(t, "2112345678", PhoneDigits("(21)1234-5678"))
	assert.Equal(t, "", PhoneDigits(""))
}

func TestValidateCredentials(t *testing.T) {
	assert.Empty(t, ValidateCredentials("teste@teste.com", "123456"))

	assert.Contains(t, ValidateCredentials("invalido", "123456"), MsgInvalidEmail)
	assert.Contains(t, ValidateCredentials("teste@teste.com", "12"), MsgPasswordLength)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	assert.Contains(t, ValidateCredentials("teste@teste.com", string(long)), MsgPasswordLength)
}
