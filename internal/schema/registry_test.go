package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collomatique/colloml-go/internal/types"
)

func TestParseObjectSchema(t *testing.T) {
	doc := []byte(`
Teacher:
  name: String
  maxHours: Int
Course:
  title: String
  teacher: Teacher
  slots: "[Int]"
`)
	s, err := ParseObjectSchema(doc)
	require.NoError(t, err)

	assert.True(t, s.HasObject("Teacher"))
	assert.True(t, s.HasObject("Course"))
	assert.False(t, s.HasObject("Room"))

	ft, ok := s.Field("Course", "teacher")
	require.True(t, ok)
	assert.Equal(t, types.TObject{Name: "Teacher"}, ft)

	slots, ok := s.Field("Course", "slots")
	require.True(t, ok)
	assert.Equal(t, types.TList{Elem: types.TInt{}}, slots)

	assert.Equal(t, []string{"Course", "Teacher"}, s.ObjectNames())
}

func TestParseVariableSchema(t *testing.T) {
	doc := []byte(`
Assign:
  - Teacher
  - Course
  - Int
Bound:
  - Int
`)
	s, err := ParseVariableSchema(doc)
	require.NoError(t, err)

	assert.True(t, s.HasVariable("Assign"))
	assert.False(t, s.HasVariable("Unknown"))

	args, ok := s.ArgsOf("Assign")
	require.True(t, ok)
	require.Len(t, args, 3)
	assert.Equal(t, types.TObject{Name: "Teacher"}, args[0])
	assert.Equal(t, types.TInt{}, args[2])

	assert.Equal(t, []string{"Assign", "Bound"}, s.Names())
}

func TestParseTypeSpecCustom(t *testing.T) {
	tp, err := parseTypeSpec("Custom(shift, Option, Some)")
	require.NoError(t, err)
	assert.Equal(t, types.TCustom{Module: "shift", Name: "Option", Variant: "Some"}, tp)

	_, err = parseTypeSpec("Custom(onlyone)")
	assert.Error(t, err)

	_, err = parseTypeSpec("")
	assert.Error(t, err)
}
