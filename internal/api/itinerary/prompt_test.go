package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserQuery(t *testing.T) {
	query, template := buildUserQuery(
		"Lisbon", "400", "May 1st", "May 3rd", "9 am", "8 pm", "vegetarian food",
		[]string{"Cervejaria Ramiro", "Time Out Market"},
	)

	assert.Contains(t, query, "Plan a trip to Lisbon from May 1st to May 3rd with a budget of $400")
	assert.Contains(t, query, "from 9 am to 8 pm")
	assert.Contains(t, query, "vegetarian food")
	assert.NotContains(t, query, "Cervejaria Ramiro")

	assert.Contains(t, template, query)
	assert.Contains(t, template, "[Cervejaria Ramiro, Time Out Market]")
	assert.Contains(t, template, `"time_to_visit"`)
	assert.Contains(t, template, "Do not include any extra information outside this structure.")
}

func TestBuildUserQueryEmptyRestaurants(t *testing.T) {
	_, template := buildUserQuery("Lisbon", "400", "May 1st", "May 3rd", "9 am", "8 pm", "", nil)
	assert.Contains(t, template, "Use this restaurants list []")
}

func TestBuildRepairPrompt(t *testing.T) {
	prompt := buildRepairPrompt(`{"Name": "broken`)
	assert.Contains(t, prompt, "expert in JSON formatting")
	assert.Contains(t, prompt, `{"Name": "broken`)
}
