package parable

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssoc(t *testing.T) {

	l := readOne(t, `(:a 1 :b "two" (x) 3)`)

	v, err := Assoc(l, NewSymbol(":a"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.(*Integer).N)

	v, err = Assoc(l, NewSymbol(":b"))
	require.NoError(t, err)
	assert.Equal(t, "two", v.(*String).S)

	// keys compare structurally
	v, err = Assoc(l, NewList(NewSymbol("x")))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.(*Integer).N)
}

func TestAssocFirstMatchWins(t *testing.T) {

	v, err := Assoc(readOne(t, "(k 1 k 2)"), NewSymbol("k"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.(*Integer).N)
}

func TestAssocKeyNotFound(t *testing.T) {

	_, err := Assoc(readOne(t, "(:a 1)"), NewSymbol(":b"))
	assert.True(t, errors.Is(err, ErrKeyNotFound))
	assert.False(t, errors.Is(err, ErrInvalidAssocList))

	_, err = Assoc(NewList(), NewSymbol(":a"))
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestAssocInvalidList(t *testing.T) {

	_, err := Assoc(readOne(t, "(:a 1 :b)"), NewSymbol(":a"))
	assert.True(t, errors.Is(err, ErrInvalidAssocList))

	_, err = Assoc(NewInteger(1), NewSymbol(":a"))
	assert.True(t, errors.Is(err, ErrInvalidAssocList))
	assert.False(t, errors.Is(err, ErrKeyNotFound))
}
