package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installed(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      []string
		wantErr   bool
	}{
		{name: "darwin", goos: "darwin", installed: []string{"pbcopy"}, want: []string{"pbcopy"}},
		{name: "linux prefers wayland", goos: "linux", installed: []string{"xclip", "wl-copy"}, want: []string{"wl-copy"}},
		{name: "linux xsel fallback", goos: "linux", installed: []string{"xsel"}, want: []string{"xsel", "--clipboard", "--input"}},
		{name: "unknown os uses linux tools", goos: "freebsd", installed: []string{"xclip"}, want: []string{"xclip", "-selection", "clipboard"}},
		{name: "nothing installed", goos: "linux", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := command(tt.goos, installed(tt.installed...))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
