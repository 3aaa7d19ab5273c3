package bot

import "testing"

func TestPurgeFetchLimit(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{name: "single message", count: 1, want: 2},
		{name: "default", count: defaultPurgeCount, want: defaultPurgeCount + 1},
		{name: "just below the cap", count: 99, want: 100},
		{name: "at the cap", count: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := purgeFetchLimit(tt.count); got != tt.want {
				t.Errorf("purgeFetchLimit(%d) = %d, want %d", tt.count, got, tt.want)
			}
			if got := purgeFetchLimit(tt.count); got > maxPurgeCount {
				t.Errorf("purgeFetchLimit(%d) = %d exceeds the API cap %d", tt.count, got, maxPurgeCount)
			}
		})
	}
}

func TestMuteReason(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		userID string
		want   string
	}{
		{
			name:   "mention then reason",
			raw:    "<@123> spamming links",
			userID: "123",
			want:   "spamming links",
		},
		{
			name:   "nickname mention form",
			raw:    "<@!123> being rude",
			userID: "123",
			want:   "being rude",
		},
		{
			name:   "mention only",
			raw:    "<@123>",
			userID: "123",
			want:   "No reason given",
		},
		{
			name:   "empty",
			raw:    "",
			userID: "123",
			want:   "No reason given",
		},
		{
			name:   "other user kept in text",
			raw:    "<@123> harassing <@456>",
			userID: "123",
			want:   "harassing <@456>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := muteReason(tt.raw, tt.userID); got != tt.want {
				t.Errorf("muteReason(%q, %q) = %q, want %q", tt.raw, tt.userID, got, tt.want)
			}
		})
	}
}
