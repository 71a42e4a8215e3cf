package reader_errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no cause",
			err:  New(EmptyResultSet, "", "nothing found in %s", "/data"),
			want: "[EmptyResultSet] nothing found in /data",
		},
		{
			name: "with cause",
			err:  Wrap(DirectoryUnreadable, "/data/locked", fs.ErrPermission, "permission denied for reading directory [%s]", "/data/locked"),
			want: "[DirectoryUnreadable] permission denied for reading directory [/data/locked]: permission denied",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsCode(t *testing.T) {
	base := Wrap(SourceOpenError, "/a.xlsx", fs.ErrNotExist, "error opening %s", "/a.xlsx")
	wrapped := fmt.Errorf("task 3: %w", base)

	assert.True(t, IsCode(wrapped, SourceOpenError))
	assert.False(t, IsCode(wrapped, InvalidSourcePath))
	assert.True(t, errors.Is(wrapped, fs.ErrNotExist))
	assert.False(t, IsCode(errors.New("plain"), SourceOpenError))

	code, ok := CodeOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, SourceOpenError, code)
}

func TestCode_Fatal(t *testing.T) {
	assert.False(t, SourceOpenError.Fatal())
	for _, c := range []Code{RequiredValue, InvalidConfig, InvalidSourcePath, EmptyResultSet, DirectoryUnreadable} {
		assert.True(t, c.Fatal(), c)
	}
}
