package services

import (
	"testing"
	"time"

	"github.com/formgate/formgate-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubmission(form types.FormKind) *types.Submission {
	return &types.Submission{
		ID:      "11111111-2222-3333-4444-555555555555",
		Form:    form,
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "5551234567",
		Message: "Hello there",
		Date:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:  types.StatusPending,
	}
}

func TestRenderAdminNotification(t *testing.T) {
	t.Run("contact embeds fields", func(t *testing.T) {
		sub := sampleSubmission(types.FormContact)
		sub.Category = "support"
		sub.Age = "30"

		html, err := RenderAdminNotification(sub)
		require.NoError(t, err)

		assert.Contains(t, html, "Jane Doe")
		assert.Contains(t, html, "jane@example.com")
		assert.Contains(t, html, "5551234567")
		assert.Contains(t, html, "support")
		assert.Contains(t, html, sub.ID)
		assert.Contains(t, html, "<!DOCTYPE html>")
	})

	t.Run("signup uses signup document", func(t *testing.T) {
		html, err := RenderAdminNotification(sampleSubmission(types.FormSignup))
		require.NoError(t, err)
		assert.Contains(t, html, "New Signup")
	})

	t.Run("omits phone row when absent", func(t *testing.T) {
		sub := sampleSubmission(types.FormContact)
		sub.Phone = ""

		html, err := RenderAdminNotification(sub)
		require.NoError(t, err)
		assert.NotContains(t, html, "Phone")
	})

	t.Run("escapes markup in user text", func(t *testing.T) {
		sub := sampleSubmission(types.FormContact)
		sub.Name = `<script>alert("xss")</script>`
		sub.Message = `<img src=x onerror=alert(1)>`

		html, err := RenderAdminNotification(sub)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
		assert.NotContains(t, html, "<img")
	})
}

func TestRenderUserConfirmation(t *testing.T) {
	t.Run("contact confirmation echoes message", func(t *testing.T) {
		html, err := RenderUserConfirmation(sampleSubmission(types.FormContact))
		require.NoError(t, err)
		assert.Contains(t, html, "Jane Doe")
		assert.Contains(t, html, "Hello there")
	})

	t.Run("signup confirmation", func(t *testing.T) {
		html, err := RenderUserConfirmation(sampleSubmission(types.FormSignup))
		require.NoError(t, err)
		assert.Contains(t, html, "Welcome aboard")
	})

	t.Run("escapes markup in name", func(t *testing.T) {
		sub := sampleSubmission(types.FormContact)
		sub.Name = "<script>steal()</script>"

		html, err := RenderUserConfirmation(sub)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>steal")
	})
}
