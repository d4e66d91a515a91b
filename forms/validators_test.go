package forms_test

import (
	"strings"
	"testing"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordProblems(t *testing.T) {
	cases := map[string][]string{
		"Secret#123": nil,
		"Ünïcødé#9A": nil,
		"short#1A":   nil,
		"Sh#1":       {"at least 8 characters"},
		"secret#123": {"an uppercase letter"},
		"SECRET#123": {"a lowercase letter"},
		"Secret#abc": {"a number"},
		"Secret1234": {"a special character"},
		"Passé1234":  {"a special character"},
		"Secret#١٢٣": nil,
		"":           {"at least 8 characters", "a lowercase letter", "an uppercase letter", "a number", "a special character"},
	}
	for password, want := range cases {
		assert.Equal(t, want, forms.PasswordProblems(password), password)
	}
}

func validRegister() forms.RegisterForm {
	return forms.RegisterForm{
		Name:            "Asha Rao",
		Email:           "asha@example.com",
		Password:        "Secret#123",
		ConfirmPassword: "Secret#123",
		AcceptTerms:     true,
		IsAdult:         true,
	}
}

func TestValidateRegister(t *testing.T) {
	form := validRegister()
	require.NoError(t, forms.Validate(&form))

	cases := []struct {
		name    string
		violate func(*forms.RegisterForm)
		message string
	}{
		{"name", func(f *forms.RegisterForm) { f.Name = "" }, "name is required"},
		{"email", func(f *forms.RegisterForm) { f.Email = "asha" }, "email must be a valid email"},
		{"password", func(f *forms.RegisterForm) { f.Password, f.ConfirmPassword = "secret#123", "secret#123" }, "password must contain an uppercase letter"},
		{"confirm", func(f *forms.RegisterForm) { f.ConfirmPassword = "Secret#12" }, "passwords do not match"},
		{"terms", func(f *forms.RegisterForm) { f.AcceptTerms = false }, "accept_terms must be accepted"},
		{"adult", func(f *forms.RegisterForm) { f.IsAdult = false }, "is_adult must be accepted"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			form := validRegister()
			c.violate(&form)
			err := forms.Validate(&form)
			require.Error(t, err)
			assert.Equal(t, c.message, forms.Message(err))
		})
	}
}

func TestValidateRegisterJoinsMessages(t *testing.T) {
	err := forms.Validate(&forms.RegisterForm{})
	require.Error(t, err)
	messages := strings.Split(forms.Message(err), "; ")
	assert.Contains(t, messages, "name is required")
	assert.Contains(t, messages, "email is required")
	assert.Contains(t, messages, "accept_terms must be accepted")
}

func TestValidatePreferences(t *testing.T) {
	valid := []forms.PreferencesForm{
		{NotificationsAbout: "internships"},
		{NotificationsAbout: "it_jobs", EducationLevel: "graduate"},
		{NotificationsAbout: "govt_jobs", GovtJobType: "railway"},
	}
	for _, form := range valid {
		form := form
		assert.NoError(t, forms.Validate(&form), form.NotificationsAbout)
	}

	invalid := map[string]forms.PreferencesForm{
		"govt_job_type is required":       {NotificationsAbout: "govt_jobs"},
		"govt_job_type is invalid":        {NotificationsAbout: "govt_jobs", GovtJobType: "galactic"},
		"notifications_about is invalid":  {NotificationsAbout: "gardening"},
		"notifications_about is required": {},
	}
	for message, form := range invalid {
		form := form
		err := forms.Validate(&form)
		require.Error(t, err, message)
		assert.Equal(t, message, forms.Message(err))
	}
}

func TestPreferencesToModel(t *testing.T) {
	model := forms.PreferencesForm{NotificationsAbout: "non_it_jobs", GovtJobType: "central", IsStudying: true}.ToModel()
	assert.Equal(t, "NON-IT", model.TechCategory)
	assert.Empty(t, model.GovtJobType)
	assert.True(t, model.IsStudying)

	model = forms.PreferencesForm{NotificationsAbout: "govt_jobs", GovtJobType: "central"}.ToModel()
	assert.Equal(t, "central", model.GovtJobType)
	assert.Empty(t, model.TechCategory)
}

func TestValidateOTPForms(t *testing.T) {
	assert.NoError(t, forms.Validate(&forms.VerifyOTPForm{Email: "a@b.co", OTP: "012345"}))
	assert.Error(t, forms.Validate(&forms.VerifyOTPForm{Email: "a@b.co", OTP: "12345"}))
	assert.Error(t, forms.Validate(&forms.VerifyOTPForm{Email: "a@b.co", OTP: "12345a"}))
	assert.Error(t, forms.Validate(&forms.PasswordOTPForm{ResetID: "nope", OTP: "123456"}))
}
