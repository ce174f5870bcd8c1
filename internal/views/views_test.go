package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPageEscapesUserInput(t *testing.T) {
	html := render(t, Dashboard(Nav{Authenticated: true, Name: `<script>alert(1)</script>`}))
	assert.NotContains(t, html, `<script>alert(1)</script>`)
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, html, `href="/logout"`)
}

func TestSignupRendersError(t *testing.T) {
	html := render(t, Signup(SignupForm{FirstName: "Ada", Email: `a"@b.com`}, "Passwords do not match"))
	assert.Contains(t, html, "Passwords do not match")
	assert.Contains(t, html, `value="Ada"`)
	assert.Contains(t, html, `value="a&#34;@b.com"`)
	assert.Contains(t, html, `name="confirmPassword"`)
	assert.Contains(t, html, `href="/login"`)
}

func TestCategoryPages(t *testing.T) {
	categories := []models.WorkoutCategory{
		{Category: "Chest", Description: "A chest workout exercise", Exercises: []string{"Bench Press"}},
	}
	nav := Nav{Authenticated: true, Name: "Ada"}

	html := render(t, Categories(nav, categories))
	assert.Contains(t, html, `href="/workouts/Chest"`)

	html = render(t, Category(nav, categories[0]))
	assert.Contains(t, html, "<li>Bench Press</li>")

	html = render(t, Diary(nav, categories, DiaryForm{Category: "Chest"}, ""))
	assert.Contains(t, html, `<option value="Chest" selected>`)
	assert.NotContains(t, html, `class="error"`)
}
