package internal

import (
	"strings"
	"testing"
)

func TestParseCaptionsFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		raw    string
		want   string
	}{
		{
			name:   "srv1 text elements",
			format: FormatSRV1,
			raw: `<?xml version="1.0" encoding="utf-8"?>
<transcript>
<text start="0.0" dur="2.5">hello world</text>
<text start="2.5" dur="3.0">second line</text>
</transcript>`,
			want: "hello world second line",
		},
		{
			name:   "srv2 text elements",
			format: FormatSRV2,
			raw: `<timedtext format="2">
<body>
<text t="0" d="2500">first</text>
<text t="2500" d="3000">second</text>
</body>
</timedtext>`,
			want: "first second",
		},
		{
			name:   "srv3 paragraphs with word segments",
			format: FormatSRV3,
			raw: `<timedtext format="3">
<body>
<p t="0" d="2500"><s>hello</s><s> world</s></p>
<p t="2500" d="3000"><s>again</s></p>
</body>
</timedtext>`,
			want: "hello world again",
		},
		{
			name:   "ttml paragraphs",
			format: FormatTTML,
			raw: `<tt xmlns="http://www.w3.org/ns/ttml">
<body><div>
<p begin="00:00:00.000" end="00:00:02.500">hello there</p>
<p begin="00:00:02.500" end="00:00:05.000">general kenobi</p>
</div></body>
</tt>`,
			want: "hello there general kenobi",
		},
		{
			name:   "vtt despite srv3 hint",
			format: FormatSRV3,
			raw:    "WEBVTT\n\n00:00:00.000 --> 00:00:02.500\nsniffed anyway\n",
			want:   "sniffed anyway",
		},
		{
			name:   "html entities decoded",
			format: FormatSRV1,
			raw:    `<transcript><text start="0" dur="1">Tom &amp; Jerry &#39;classic&#39;</text></transcript>`,
			want:   "Tom & Jerry 'classic'",
		},
		{
			name:   "whitespace collapsed",
			format: FormatSRV1,
			raw:    "<transcript><text>too   many\n\nspaces</text></transcript>",
			want:   "too many spaces",
		},
		{
			name:   "empty text elements skipped",
			format: FormatSRV1,
			raw:    `<transcript><text start="0" dur="1"></text><text start="1" dur="1">kept</text></transcript>`,
			want:   "kept",
		},
		{
			name:   "unknown markup falls back to tag stripping",
			format: "",
			raw:    `<track><cue>salvaged</cue><cue>words</cue></track>`,
			want:   "salvaged words",
		},
		{
			name:   "empty input",
			format: FormatSRV3,
			raw:    "",
			want:   "",
		},
		{
			name:   "whitespace only",
			format: FormatSRV3,
			raw:    "   \n\t  ",
			want:   "",
		},
		{
			name:   "markup only",
			format: FormatSRV1,
			raw:    `<transcript></transcript>`,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCaptions(tt.format, tt.raw)
			if got != tt.want {
				t.Errorf("ParseCaptions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCaptionsVTT(t *testing.T) {
	raw := `WEBVTT
Kind: captions
Language: en

NOTE this is a comment

1
00:00:00.000 --> 00:00:02.500
<c.colorCCCCCC>hello world</c>

2
00:00:02.500 --> 00:00:05.000
second &amp; third
line continues
`
	want := "hello world second & third line continues"
	if got := ParseCaptions(FormatVTT, raw); got != want {
		t.Errorf("ParseCaptions() = %q, want %q", got, want)
	}
}

func TestParseCaptionsMalformedNeverPanics(t *testing.T) {
	inputs := []string{
		"<text>unclosed",
		"<p attr=>broken</p",
		"WEBVTT\n00:00 --> garbage -->",
		strings.Repeat("<", 1000),
		"plain text with no markup at all",
		"<text>\x00\xff</text>",
	}

	for _, format := range []string{FormatSRV1, FormatSRV3, FormatVTT, ""} {
		for _, raw := range inputs {
			// Must not panic, result content is best-effort
			_ = ParseCaptions(format, raw)
		}
	}
}
