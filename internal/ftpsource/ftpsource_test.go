package ftpsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"sp3clock/internal/config"
)

func TestFilterSP3(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "keeps sp3 only",
			in:   []string{"Ref22951.sp3", "readme.txt", "Ref22950.SP3", "Ref22950.clk"},
			want: []string{"Ref22950.SP3", "Ref22951.sp3"},
		},
		{
			name: "strips directories and duplicates",
			in:   []string{"/MCC/SP3/Ref22950.sp3", "Ref22950.sp3", " Ref22952.sp3 "},
			want: []string{"Ref22950.sp3", "Ref22952.sp3"},
		},
		{
			name: "nothing matches",
			in:   []string{".", "..", "sp3"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterSP3(tt.in))
		})
	}
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "ftp.glonass-iac.ru:21", Address("ftp.glonass-iac.ru"))
	assert.Equal(t, "127.0.0.1:2121", Address("127.0.0.1:2121"))
	assert.Equal(t, "[::1]:21", Address("::1"))
}

func TestDial_RequiresHost(t *testing.T) {
	_, err := Dial(context.Background(), config.FTPConfig{})
	assert.Error(t, err)
}
