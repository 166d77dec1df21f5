package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Name                 string  `json:"name" validate:"required|min=2|max=255"`
	Email                string  `json:"email" validate:"required|email"`
	Password             string  `json:"password" validate:"required|min=6|confirmed"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required"`
	Phone                string  `json:"phone" validate:"nullable|digits=10"`
	Rating               float64 `json:"rating" validate:"nullable|gte=0|lte=5"`
	Payment              string  `json:"payment" validate:"required|in=cash,card,digital_wallet"`
}

func validForm() registerForm {
	return registerForm{
		Name:                 "Asha",
		Email:                "asha@example.com",
		Password:             "secret99",
		PasswordConfirmation: "secret99",
		Phone:                "5550100200",
		Rating:               4.5,
		Payment:              "card",
	}
}

func TestStructValid(t *testing.T) {
	errs := Struct(validForm())
	require.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	form := validForm()
	form.Name = "  "
	errs := Struct(form)
	require.Contains(t, errs, "name")
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestStructEmail(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"
	errs := Struct(form)
	require.Contains(t, errs, "email")
}

func TestStructMinLength(t *testing.T) {
	form := validForm()
	form.Password = "abc"
	form.PasswordConfirmation = "abc"
	errs := Struct(form)
	require.Contains(t, errs, "password")
	assert.Equal(t, "The password must be at least 6 characters.", errs["password"])
}

func TestStructConfirmed(t *testing.T) {
	form := validForm()
	form.PasswordConfirmation = "different"
	errs := Struct(form)
	require.Contains(t, errs, "password")
	assert.Equal(t, "The password confirmation does not match.", errs["password"])
}

func TestStructFirstFailurePerField(t *testing.T) {
	form := validForm()
	form.Password = "" // fails required before confirmed
	errs := Struct(form)
	require.Equal(t, "The password field is required.", errs["password"])
}

func TestStructNullableSkips(t *testing.T) {
	form := validForm()
	form.Phone = ""
	errs := Struct(form)
	assert.NotContains(t, errs, "phone")
}

func TestStructDigits(t *testing.T) {
	form := validForm()
	form.Phone = "12345"
	errs := Struct(form)
	require.Contains(t, errs, "phone")
}

func TestStructInWithMultiValueParam(t *testing.T) {
	form := validForm()
	form.Payment = "digital_wallet"
	assert.Empty(t, Struct(form))

	form.Payment = "bitcoin"
	errs := Struct(form)
	require.Contains(t, errs, "payment")
	assert.Equal(t, "The selected payment is invalid.", errs["payment"])
}

func TestStructNumericBounds(t *testing.T) {
	form := validForm()
	form.Rating = 5.5
	errs := Struct(form)
	require.Contains(t, errs, "rating")
}

func TestSplitRulesKeepsInParamsTogether(t *testing.T) {
	rules := splitRules("required|in=cash,card,digital_wallet|max=20")
	assert.Equal(t, []string{"required", "in=cash,card,digital_wallet", "max=20"}, rules)
}

// Values in an in= list may themselves be rule keywords (an order status is
// literally "confirmed"); the splitter must not treat them as rules.
func TestStructInAcceptsValuesNamedLikeRules(t *testing.T) {
	type statusForm struct {
		Status string `json:"status" validate:"required|in=pending,confirmed,preparing,out_for_delivery,delivered,cancelled"`
	}

	for _, s := range []string{"pending", "confirmed", "preparing", "out_for_delivery", "delivered", "cancelled"} {
		assert.Empty(t, Struct(statusForm{Status: s}), "status %q should validate", s)
	}

	errs := Struct(statusForm{Status: "teleported"})
	require.Contains(t, errs, "status")
	assert.Equal(t, "The selected status is invalid.", errs["status"])
}
