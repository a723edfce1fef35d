package todo

import "testing"

func TestParseContext(t *testing.T) {
	tests := []struct {
		in      string
		want    Context
		wantErr bool
	}{
		{"team_a", TeamA, false},
		{"Team A", TeamA, false},
		{"team-b", TeamB, false},
		{"TEAMB", TeamB, false},
		{"a", TeamA, false},
		{"p", Project, false},
		{" Project ", Project, false},
		{"sap_project", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseContext(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseContext(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseContext(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContextLabels(t *testing.T) {
	want := map[Context]string{
		TeamA:   "Team A",
		TeamB:   "Team B",
		Project: "Project",
	}
	for _, c := range Contexts() {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
		if got := c.Label(); got != want[c] {
			t.Errorf("Label(%q) = %q, want %q", c, got, want[c])
		}
	}
	if Context("other").Valid() {
		t.Error("unknown context reported valid")
	}
}
