package bot

import "testing"

func TestExtractTicketUserID(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantID      string
		wantOK      bool
	}{
		{
			name:        "ticket embed",
			description: "**User:** <@123456789> (`123456789`)\n**Server:** `Test`\n**Reason:** help",
			wantID:      "123456789",
			wantOK:      true,
		},
		{
			name:        "first mention wins",
			description: "<@111> reported <@222>",
			wantID:      "111",
			wantOK:      true,
		},
		{name: "no mention", description: "just text", wantOK: false},
		{name: "empty", description: "", wantOK: false},
		{name: "malformed mention", description: "<@abc>", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := extractTicketUserID(tt.description)
			if ok != tt.wantOK {
				t.Fatalf("extractTicketUserID(%q) ok = %v, want %v", tt.description, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("extractTicketUserID(%q) = %q, want %q", tt.description, id, tt.wantID)
			}
		})
	}
}
