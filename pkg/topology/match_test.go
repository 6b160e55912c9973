package topology

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/term"
)

func TestFromTerm(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Record
	}{
		{
			name: "Switch",
			src:  `{of_switch, "s1", "00:00:01", ["1", "2"]}`,
			want: Switch{ID: "s1", DatapathID: "00:00:01", Ports: []string{"1", "2"}},
		},
		{
			name: "SwitchNoPorts",
			src:  `{of_switch, "s1", "00:00:01", []}`,
			want: Switch{ID: "s1", DatapathID: "00:00:01", Ports: []string{}},
		},
		{
			name: "Endpoint",
			src:  `{endpoint, "h1", "10.0.0.1", "s1", "1"}`,
			want: Endpoint{ID: "h1", IP: "10.0.0.1", Switch: "s1", Port: "1"},
		},
		{
			name: "Connect",
			src:  `{connect, "s1", "2", "s2", "1"}`,
			want: Connect{Switch1: "s1", Port1: "2", Switch2: "s2", Port2: "1"},
		},
		{
			name: "GatewayBridge",
			src:  `{gateway_bridge, "gw", "s1", "3"}`,
			want: GatewayBridge{ID: "gw", Switch: "s1", Port: "3"},
		},
		{
			name: "GatewayMask",
			src:  `{gateway_mask, "gw", "10.0.0.254", "255.255.255.0", "s1", "4"}`,
			want: GatewayMask{ID: "gw", IP: "10.0.0.254", NetMask: "255.255.255.0", Switch: "s1", Port: "4"},
		},
		{
			name: "PhysicalHost",
			src:  `{lm_ph, "ph", [{"eth0", "vp0"}, {"eth1", "vp1"}], ["vp2"]}`,
			want: PhysicalHost{
				ID:           "ph",
				Bridges:      []PortBridge{{"eth0", "vp0"}, {"eth1", "vp1"}},
				VirtualPorts: []string{"vp2"},
			},
		},
		{
			name: "PatchPanel",
			src:  `{lm_patchp, "ph", ["vp0", "vp1"]}`,
			want: PatchPanel{HostID: "ph", Ports: []string{"vp0", "vp1"}},
		},
		{
			name: "VirtualHost",
			src:  `{lm_vh, "ph", "vh1", ["vp0"]}`,
			want: VirtualHost{PhysicalHostID: "ph", Suffix: "vh1", VirtualPorts: []string{"vp0"}},
		},
		{
			name: "BoundTo",
			src:  `{bound_to, "a", "b"}`,
			want: BoundTo{From: "a", To: "b"},
		},
		{
			name: "AtomsAndIntegers",
			src:  `{connect, s1, 2, s2, 1}`,
			want: Connect{Switch1: "s1", Port1: "2", Switch2: "s2", Port2: "1"},
		},
		{
			name: "EmptyTextAsEmptyList",
			src:  `{lm_patchp, "ph", ""}`,
			want: PatchPanel{HostID: "ph", Ports: []string{}},
		},
		{
			name: "EmptyTextAsNoBridges",
			src:  `{lm_ph, "ph", "", []}`,
			want: PhysicalHost{ID: "ph", Bridges: []PortBridge{}, VirtualPorts: []string{}},
		},
		{
			name: "EmptyListAsEmptyText",
			src:  `{bound_to, [], "b"}`,
			want: BoundTo{From: "", To: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := term.ParseString(tt.src)
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			got, err := FromTerm(tm)
			if err != nil {
				t.Fatalf("FromTerm: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got  %#v\nwant %#v", got, tt.want)
			}
			if got.Tag() != tt.want.Tag() {
				t.Errorf("Tag() = %s, want %s", got.Tag(), tt.want.Tag())
			}
		})
	}
}

func TestFromTermUnknown(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"UnknownTag", `{router, "r1"}`},
		{"NotATuple", `[bound_to, "a", "b"]`},
		{"BareAtom", `bound_to`},
		{"EmptyTuple", `{}`},
		{"StringTag", `{"bound_to", "a", "b"}`},
		{"TooFewFields", `{bound_to, "a"}`},
		{"TooManyFields", `{bound_to, "a", "b", "c"}`},
		{"PortsNotList", `{of_switch, "s1", "dp", "1"}`},
		{"NestedInPorts", `{of_switch, "s1", "dp", [["1"]]}`},
		{"IdIsTuple", `{endpoint, {"h1"}, "ip", "s1", "1"}`},
		{"PairIsList", `{lm_ph, "ph", [["eth0", "vp0"]], []}`},
		{"PairTooLong", `{lm_ph, "ph", [{"eth0", "vp0", "x"}], []}`},
		{"PairNotScalar", `{lm_ph, "ph", [{"eth0", ["vp0"]}], []}`},
		{"IdIsNonEmptyList", `{bound_to, ["a"], "b"}`},
		{"PortsNonEmptyText", `{lm_patchp, "ph", "vp0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := term.ParseString(tt.src)
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			_, err = FromTerm(tm)
			if !errors.Is(err, errors.ErrCodeUnknownRecord) {
				t.Fatalf("FromTerm error = %v, want UNKNOWN_RECORD", err)
			}
			if !strings.Contains(err.Error(), tm.String()) {
				t.Errorf("error %q should contain the record %s", err, tm)
			}
		})
	}
}

func TestTags(t *testing.T) {
	tags := Tags()
	if len(tags) != 9 {
		t.Fatalf("Tags() has %d entries, want 9", len(tags))
	}
	for _, tag := range tags {
		if _, ok := structuredDecoders[tag]; !ok {
			t.Errorf("no structured decoder for %s", tag)
		}
	}
}
