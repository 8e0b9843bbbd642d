package middleware

import "testing"

func TestValidateVideoID_Valid(t *testing.T) {
	id, msg := ValidateVideoID(" dQw4w9WgXcQ ")
	if msg != "" {
		t.Fatalf("unexpected error: %s", msg)
	}
	if id != "dQw4w9WgXcQ" {
		t.Errorf("id = %q, want trimmed dQw4w9WgXcQ", id)
	}
}

func TestValidateVideoID_Invalid(t *testing.T) {
	cases := []string{"", "   ", "abc<script>", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "id with spaces"}
	for _, in := range cases {
		if _, msg := ValidateVideoID(in); msg == "" {
			t.Errorf("ValidateVideoID(%q) should fail", in)
		}
	}
}

func TestValidateChannelID(t *testing.T) {
	if _, msg := ValidateChannelID("UC_x5XG1OV2P6uZZ5FSM9Ttw"); msg != "" {
		t.Errorf("valid channel ID rejected: %s", msg)
	}
	if _, msg := ValidateChannelID(""); msg == "" {
		t.Error("empty channel ID should be rejected")
	}
	if _, msg := ValidateChannelID("UC!!invalid"); msg == "" {
		t.Error("channel ID with invalid characters should be rejected")
	}
}

func TestClampMaxResults(t *testing.T) {
	tests := []struct{ in, def, want int }{
		{0, 20, 20},
		{-5, 20, 20},
		{16, 20, 16},
		{500, 20, MaxResultsCap},
	}
	for _, tt := range tests {
		if got := ClampMaxResults(tt.in, tt.def); got != tt.want {
			t.Errorf("ClampMaxResults(%d, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}
