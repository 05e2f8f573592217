package lox_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"shaftmatch/pkg/lox"
)

func TestMapErr(t *testing.T) {
	rq := require.New(t)

	got, err := lox.MapErr([]string{"1", "2"}, strconv.Atoi)
	rq.NoError(err)
	rq.Equal([]int{1, 2}, got)

	errBoom := errors.New("boom")

	got, err = lox.MapErr([]string{"1", "x"}, func(s string) (int, error) {
		if s == "x" {
			return 0, errBoom
		}

		return strconv.Atoi(s)
	})
	rq.ErrorIs(err, errBoom)
	rq.Nil(got)
}
