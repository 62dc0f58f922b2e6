package headerip

import (
	"net/netip"
	"testing"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name       string
		preset     Option
		headerName string
		value      string
		wantIP     string
		wantSource string
	}{
		{
			name:       "cloudflare",
			preset:     PresetCloudflare(),
			headerName: HeaderCFConnectingIP,
			value:      "2.2.2.2",
			wantIP:     "2.2.2.2",
			wantSource: SourceCFConnectingIP,
		},
		{
			name:       "cloudfront",
			preset:     PresetCloudFront(),
			headerName: HeaderCloudFrontViewerAddress,
			value:      "2001:db8::1:443",
			wantIP:     "2001:db8::1",
			wantSource: SourceCloudFrontViewerAddress,
		},
		{
			name:       "fly.io",
			preset:     PresetFlyIO(),
			headerName: HeaderFlyClientIP,
			value:      "2.2.2.2",
			wantIP:     "2.2.2.2",
			wantSource: SourceFlyClientIP,
		},
		{
			name:       "akamai",
			preset:     PresetAkamai(),
			headerName: HeaderTrueClientIP,
			value:      "2.2.2.2",
			wantIP:     "2.2.2.2",
			wantSource: SourceTrueClientIP,
		},
		{
			name:       "nginx",
			preset:     PresetNginx(),
			headerName: HeaderXRealIP,
			value:      "2.2.2.2",
			wantIP:     "2.2.2.2",
			wantSource: SourceXRealIP,
		},
		{
			name:       "rfc7239",
			preset:     PresetRFC7239(),
			headerName: HeaderForwarded,
			value:      "for=192.0.2.1, for=2.2.2.2",
			wantIP:     "2.2.2.2",
			wantSource: SourceForwarded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := mustNewExtractor(t, tt.preset)

			req := newTestRequest("1.1.1.1:80", "/")
			req.Header = headersOf(t, tt.headerName, tt.value)

			extraction, err := extractor.Extract(req)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got, want := extraction.IP, netip.MustParseAddr(tt.wantIP); got != want {
				t.Errorf("IP = %v, want %v", got, want)
			}
			if extraction.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", extraction.Source, tt.wantSource)
			}

			t.Run("remote addr fallback", func(t *testing.T) {
				fallbackReq := newTestRequest("1.1.1.1:80", "/")

				extraction, err := extractor.Extract(fallbackReq)
				if err != nil {
					t.Fatalf("Extract() error = %v", err)
				}
				if extraction.Source != SourceRemoteAddr {
					t.Errorf("Source = %q, want %q", extraction.Source, SourceRemoteAddr)
				}
			})
		})
	}
}

func TestPresetDirectConnection(t *testing.T) {
	extractor := mustNewExtractor(t, PresetDirectConnection())

	// Proxy headers are ignored entirely; only the socket address counts.
	req := newTestRequest("1.1.1.1:80", "/")
	req.Header = headersOf(t, HeaderCFConnectingIP, "2.2.2.2")

	extraction, err := extractor.Extract(req)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got, want := extraction.IP, netip.MustParseAddr("1.1.1.1"); got != want {
		t.Errorf("IP = %v, want %v", got, want)
	}
	if extraction.Source != SourceRemoteAddr {
		t.Errorf("Source = %q, want %q", extraction.Source, SourceRemoteAddr)
	}
}
