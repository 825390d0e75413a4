package profile

import "testing"

// TestNeedsCompletion tests the sentinel and placeholder rules.
func TestNeedsCompletion(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{"complete", Profile{Name: "Alberta Gator", UniversityID: "12345678"}, false},
		{"sentinel name", Profile{Name: "Gator User", UniversityID: "12345678"}, true},
		{"sentinel with spaces", Profile{Name: " Gator User ", UniversityID: "12345678"}, true},
		{"empty name", Profile{Name: "", UniversityID: "12345678"}, true},
		{"missing ufid", Profile{Name: "Alberta Gator"}, true},
		{"placeholder ufid", Profile{Name: "Alberta Gator", UniversityID: "N/A"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.NeedsCompletion(); got != tt.want {
				t.Errorf("NeedsCompletion() = %v, want %v", got, tt.want)
			}
		})
	}
}
