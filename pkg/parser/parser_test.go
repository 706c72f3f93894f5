package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidSource(t *testing.T) {
	p := New()
	defer p.Close()

	code := "def hello():\n    return 'world'\n"
	result, err := p.Parse([]byte(code), "hello.py")
	require.NoError(t, err)

	assert.Nil(t, result.SyntaxError())
	assert.Equal(t, 2, result.LineCount())
}

func TestParseSyntaxError(t *testing.T) {
	p := New()
	defer p.Close()

	code := "def hello(:\n    return 'world'\n"
	result, err := p.Parse([]byte(code), "broken.py")
	require.NoError(t, err)

	synErr := result.SyntaxError()
	require.NotNil(t, synErr)
	assert.Equal(t, 1, synErr.Line)
	assert.NotEmpty(t, synErr.Message)
}

func TestGetFunctions(t *testing.T) {
	p := New()
	defer p.Close()

	code := `def outer(a, b):
    """Doc."""
    def inner():
        pass
    return inner

class Greeter:
    def greet(self, name):
        return "hi " + name
`
	result, err := p.Parse([]byte(code), "funcs.py")
	require.NoError(t, err)

	fns := GetFunctions(result)
	require.Len(t, fns, 3)

	assert.Equal(t, "outer", fns[0].Name)
	assert.Equal(t, 1, fns[0].StartLine)
	assert.Equal(t, 2, fns[0].ParamCount())
	assert.True(t, fns[0].HasDocstring())

	assert.Equal(t, "inner", fns[1].Name)
	assert.Equal(t, 0, fns[1].ParamCount())
	assert.False(t, fns[1].HasDocstring())

	assert.Equal(t, "greet", fns[2].Name)
	assert.Equal(t, 2, fns[2].ParamCount())
}

func TestBodyLineCount(t *testing.T) {
	p := New()
	defer p.Close()

	code := "def f():\n    a = 1\n    b = 2\n    return a + b\n"
	result, err := p.Parse([]byte(code), "f.py")
	require.NoError(t, err)

	fns := GetFunctions(result)
	require.Len(t, fns, 1)
	assert.Equal(t, 3, fns[0].BodyLineCount())
}

func TestFindNodesByType(t *testing.T) {
	p := New()
	defer p.Close()

	code := "if x:\n    pass\nif y:\n    pass\n"
	result, err := p.Parse([]byte(code), "ifs.py")
	require.NoError(t, err)

	nodes := FindNodesByType(result.Tree.RootNode(), result.Source, "if_statement")
	assert.Len(t, nodes, 2)
}
