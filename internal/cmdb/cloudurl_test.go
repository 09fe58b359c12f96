package cmdb

import "testing"

func TestBuildCloudHostURL(t *testing.T) {
	const base = "https://my.rightscale.com/acct/1234"

	tests := []struct {
		name     string
		base     string
		selfLink string
		want     string
	}{
		{"api link", base, "/api/clouds/6/instances/ABC123", "https://my.rightscale.com/acct/1234/clouds/6/instances/ABC123"},
		{"absolute link", base, "https://us-3.rightscale.com/api/clouds/6/instances/ABC123", "https://my.rightscale.com/acct/1234/clouds/6/instances/ABC123"},
		{"bare reference", base, "ref123", "https://my.rightscale.com/acct/1234/ref123"},
		{"trailing slash on base", base + "/", "/clouds/1/instances/X", "https://my.rightscale.com/acct/1234/clouds/1/instances/X"},
		{"api prefix only as a segment", base, "/apis/x", "https://my.rightscale.com/acct/1234/apis/x"},
		{"empty link", base, "  ", ""},
		{"no base", "", " /api/clouds/6/instances/ABC123 ", "/api/clouds/6/instances/ABC123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildCloudHostURL(tt.base, tt.selfLink); got != tt.want {
				t.Errorf("BuildCloudHostURL(%q, %q) = %q, want %q", tt.base, tt.selfLink, got, tt.want)
			}
		})
	}
}
