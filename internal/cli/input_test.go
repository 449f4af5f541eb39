package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPassword(t *testing.T, pw []byte, err error) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetPassword(t *testing.T) {
	stubPassword(t, []byte("pw"), nil)
	var out bytes.Buffer

	got, err := GetPassword(&out, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("pw"), got)
	assert.Equal(t, "Password for alice: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	stubPassword(t, nil, errors.New("boom"))
	var out bytes.Buffer

	_, err := GetPassword(&out, "alice")
	assert.EqualError(t, err, "boom")
}

func TestGetPassword_Empty(t *testing.T) {
	stubPassword(t, []byte{}, nil)
	var out bytes.Buffer

	_, err := GetPassword(&out, "alice")
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}
