package crewflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolListToggle(t *testing.T) {
	var tools ToolList
	tools = tools.Toggle("web_search")
	tools = tools.Toggle("calculator")
	assert.Equal(t, ToolList{"web_search", "calculator"}, tools)

	tools = tools.Toggle("web_search")
	assert.Equal(t, ToolList{"calculator"}, tools)
}

func TestToolListUnmarshalDedups(t *testing.T) {
	var tools ToolList
	assert.NoError(t, tools.UnmarshalJSON([]byte(`["a", "b", "a"]`)))
	assert.Equal(t, ToolList{"a", "b"}, tools)

	assert.NoError(t, tools.UnmarshalJSON([]byte(`null`)))
	assert.Nil(t, tools)
}

func TestToolsCatalogIsACopy(t *testing.T) {
	tools := Tools()
	assert.Len(t, tools, 15)
	tools[0] = "changed"
	assert.Equal(t, "web_search", Tools()[0])
}
