package assist

import (
	"testing"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return DefaultCatalog(&fakeBookingAPI{})
}

func TestValidateArgsAcceptsWellFormedCall(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("create_booking", map[string]any{
		"date":       "2026-08-29",
		"start":      "19:00",
		"end":        "20:00",
		"bay_type":   "social",
		"party_size": float64(3), // JSON numbers decode as float64
	})
	assert.NoError(t, err)
}

func TestValidateArgsRejectsUnknownFunction(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("delete_everything", map[string]any{})
	assert.Error(t, err)
}

func TestValidateArgsRejectsMissingRequired(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("create_booking", map[string]any{
		"date":  "2026-08-29",
		"start": "19:00",
		// end missing
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end")
}

func TestValidateArgsRejectsTypeMismatch(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("create_booking", map[string]any{
		"date":       "2026-08-29",
		"start":      "19:00",
		"end":        "20:00",
		"party_size": "three",
	})
	assert.Error(t, err)
}

func TestValidateArgsRejectsEnumViolation(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("create_booking", map[string]any{
		"date":     "2026-08-29",
		"start":    "19:00",
		"end":      "20:00",
		"bay_type": "penthouse",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bay_type")
}

func TestValidateArgsRejectsUndeclaredParameter(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("lookup_booking", map[string]any{
		"customer_ref": "cust-1",
		"discount":     "100%",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discount")
}

func TestValidateArgsAllowsAbsentOptional(t *testing.T) {
	c := testCatalog()
	err := c.ValidateArgs("check_availability", map[string]any{"date": "2026-08-30"})
	assert.NoError(t, err)
}

func TestRegisterExtendsVocabulary(t *testing.T) {
	c := testCatalog()
	before := len(c.Names())

	c.Register(FunctionSpec{
		Name:        "reschedule_booking",
		Description: "Move an existing booking to a new time.",
		Parameters: []ParamSpec{
			{Name: "booking_id", Type: "string", Required: true},
			{Name: "start", Type: "string", Required: true},
		},
	}, &CancelBookingExecutor{API: &fakeBookingAPI{}})

	names := c.Names()
	assert.Len(t, names, before+1)
	assert.Contains(t, names, "reschedule_booking")
	_, ok := c.Executor("reschedule_booking")
	assert.True(t, ok)
	assert.NoError(t, c.ValidateArgs("reschedule_booking", map[string]any{
		"booking_id": "bk-1",
		"start":      "18:00",
	}))
}

func TestGeminiToolsRenderSchema(t *testing.T) {
	c := testCatalog()
	tools := c.GeminiTools()
	require.Len(t, tools, 1)
	require.NotEmpty(t, tools[0].FunctionDeclarations)

	var createDecl *genai.FunctionDeclaration
	for _, d := range tools[0].FunctionDeclarations {
		if d.Name == "create_booking" {
			createDecl = d
		}
	}
	require.NotNil(t, createDecl)
	assert.Equal(t, genai.TypeObject, createDecl.Parameters.Type)
	assert.Contains(t, createDecl.Parameters.Required, "date")
	assert.Equal(t, genai.TypeInteger, createDecl.Parameters.Properties["party_size"].Type)
	assert.Equal(t, []string{"social", "standard", "vip"}, createDecl.Parameters.Properties["bay_type"].Enum)
}

func TestNamesSortedAscending(t *testing.T) {
	names := testCatalog().Names()
	assert.Equal(t, []string{
		"cancel_booking",
		"check_availability",
		"check_pro_availability",
		"create_booking",
		"lookup_booking",
	}, names)
}

func TestTriggerHintTextCoversEveryFunction(t *testing.T) {
	c := testCatalog()
	text := c.TriggerHintText()
	for _, name := range c.Names() {
		assert.Contains(t, text, name)
	}
}
