package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	first, second := errors.New("uart closed"), errors.New("broker gone")
	testCases := []struct {
		name   string
		errs   []error
		expect string
	}{
		{"none", []error{nil, nil}, ""},
		{"single", []error{nil, first}, "uart closed"},
		{"multiple", []error{first, nil, second}, "2 errors: [uart closed] [broker gone]"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var agg AggregatedError
			err := agg.Add(tc.errs...).Aggregate()
			if tc.expect == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tc.expect)
			require.True(t, errors.Is(err, first))
		})
	}
}
