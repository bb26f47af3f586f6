package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContactFields(t *testing.T) {
	t.Run("valid input normalizes email and escapes markup", func(t *testing.T) {
		normalized, errs := Validate(ContactFields(), map[string]string{
			"name":     "Jane <script>alert(1)</script>",
			"email":    "Foo@EXAMPLE.com ",
			"phone":    "+1 (555) 123-4567",
			"category": "support",
			"age":      "30",
			"message":  "Hello there",
		})

		require.Empty(t, errs)
		assert.Equal(t, "foo@example.com", normalized["email"])
		assert.NotContains(t, normalized["name"], "<script>")
		assert.Contains(t, normalized["name"], "&lt;script&gt;")
		assert.Equal(t, "+1 (555) 123-4567", normalized["phone"])
	})

	t.Run("missing required fields are all reported in order", func(t *testing.T) {
		_, errs := Validate(ContactFields(), map[string]string{
			"email": "jane@example.com",
		})

		require.Len(t, errs, 4)
		assert.Equal(t, "name", errs[0].Field)
		assert.Equal(t, "category", errs[1].Field)
		assert.Equal(t, "age", errs[2].Field)
		assert.Equal(t, "message", errs[3].Field)
	})

	t.Run("whitespace-only counts as missing", func(t *testing.T) {
		_, errs := Validate(ContactFields(), map[string]string{
			"name":     "   ",
			"email":    "jane@example.com",
			"category": "x",
			"age":      "30",
			"message":  "hi",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
	})

	t.Run("invalid email syntax rejected", func(t *testing.T) {
		_, errs := Validate(ContactFields(), map[string]string{
			"name":     "Jane",
			"email":    "not-an-email",
			"category": "x",
			"age":      "30",
			"message":  "hi",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].Field)
	})

	t.Run("phone charset restricted", func(t *testing.T) {
		_, errs := Validate(ContactFields(), map[string]string{
			"name":     "Jane",
			"email":    "jane@example.com",
			"phone":    "555-ABCD",
			"category": "x",
			"age":      "30",
			"message":  "hi",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "phone", errs[0].Field)
	})

	t.Run("optional phone may be absent", func(t *testing.T) {
		normalized, errs := Validate(ContactFields(), map[string]string{
			"name":     "Jane",
			"email":    "jane@example.com",
			"category": "x",
			"age":      "30",
			"message":  "hi",
		})

		require.Empty(t, errs)
		_, ok := normalized["phone"]
		assert.False(t, ok)
	})
}

func TestValidateSignupFields(t *testing.T) {
	t.Run("valid signup", func(t *testing.T) {
		normalized, errs := Validate(SignupFields(), map[string]string{
			"name":  "Jane Doe",
			"email": "jane@example.com",
			"phone": "5551234567",
		})

		require.Empty(t, errs)
		assert.Equal(t, "Jane Doe", normalized["name"])
	})

	t.Run("name shorter than three characters rejected", func(t *testing.T) {
		_, errs := Validate(SignupFields(), map[string]string{
			"name":  "Jo",
			"email": "jo@example.com",
			"phone": "5551234567",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
		assert.Contains(t, errs[0].Message, "at least 3")
	})

	t.Run("phone must be exactly ten digits", func(t *testing.T) {
		for _, phone := range []string{"555123456", "55512345678", "555123456a"} {
			_, errs := Validate(SignupFields(), map[string]string{
				"name":  "Jane",
				"email": "jane@example.com",
				"phone": phone,
			})
			require.Len(t, errs, 1, "phone %q should fail", phone)
			assert.Equal(t, "phone", errs[0].Field)
		}
	})

	t.Run("phone required in signup", func(t *testing.T) {
		_, errs := Validate(SignupFields(), map[string]string{
			"name":  "Jane",
			"email": "jane@example.com",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "phone", errs[0].Field)
	})
}

func TestRules(t *testing.T) {
	t.Run("max length", func(t *testing.T) {
		assert.Empty(t, MaxLen(5)("hello"))
		assert.NotEmpty(t, MaxLen(5)("hello!"))
	})

	t.Run("email normalization", func(t *testing.T) {
		assert.Equal(t, "user@host.com", NormalizeEmail("  User@HOST.com "))
	})

	t.Run("html escaping", func(t *testing.T) {
		escaped := EscapeHTML(`<b onclick="x()">&</b>`)
		assert.NotContains(t, escaped, "<b")
		assert.Contains(t, escaped, "&amp;")
	})
}
