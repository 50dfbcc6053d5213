package services_test

import (
	"testing"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-03-01", "2024-03-01", false},
		{" 2024-03-01 ", "2024-03-01", false},
		{"03/01/2024", "2024-03-01", false},
		{"3/1/2024", "2024-03-01", false},
		{"2024/03/01", "2024-03-01", false},
		{"March 1, 2024", "2024-03-01", false},
		{"Mar 1, 2024", "2024-03-01", false},
		{"1 March 2024", "2024-03-01", false},
		{"2024-03-01T23:30:00-05:00", "2024-03-01", false},
		{"", "", true},
		{"next tuesday", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := services.NormalizeDate("date", tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
