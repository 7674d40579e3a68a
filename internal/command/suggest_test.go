package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestMatch(t *testing.T) {
	candidates := []string{"-g", "--global", "-u", "--update", "-m", "--maintenance"}

	tests := []struct {
		name       string
		target     string
		candidates []string
		want       string
	}{
		{"typo", "--updte", candidates, "--update"},
		{"exact", "--global", candidates, "--global"},
		{"case insensitive", "--MAINTENANCE", candidates, "--maintenance"},
		{"tie picks the first", "zz", []string{"ab", "cd"}, "ab"},
		{"no candidates", "--x", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestMatch(tt.target, tt.candidates))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, ".."},
		{"ピンクビーン", 5, "ピン..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.s, tt.n), "Truncate(%q, %d)", tt.s, tt.n)
	}
}

func TestInvocation_Messages(t *testing.T) {
	def, _, _ := newsDefinition(t)

	inv := def.Parse("!", "n", []string{"--updat"})

	assert.Equal(t, "--updat", inv.InvalidOption())
	assert.Equal(t,
		"The option `--updat` does not exist for command `!n`. Did you mean `--update`?",
		inv.InvalidOptionMessage())
	assert.Equal(t, "`!n` is for administrators only", inv.AdminOnlyMessage())
	assert.Equal(t, "`!n` is on cooldown", inv.CooldownMessage())
}
