package topology

// Record tags as they appear in input files.
const (
	TagSwitch        = "of_switch"
	TagEndpoint      = "endpoint"
	TagConnect       = "connect"
	TagGatewayBridge = "gateway_bridge"
	TagGatewayMask   = "gateway_mask"
	TagPhysicalHost  = "lm_ph"
	TagPatchPanel    = "lm_patchp"
	TagVirtualHost   = "lm_vh"
	TagBoundTo       = "bound_to"
)

// Tags returns every known record tag in declaration order.
func Tags() []string {
	return []string{
		TagSwitch, TagEndpoint, TagConnect,
		TagGatewayBridge, TagGatewayMask,
		TagPhysicalHost, TagPatchPanel, TagVirtualHost,
		TagBoundTo,
	}
}

// Record is one parsed topology entry. The set of implementations is closed.
type Record interface {
	// Tag returns the record's tag, e.g. "of_switch".
	Tag() string
	isRecord()
}

// Switch is an OpenFlow switch with its ports.
type Switch struct {
	ID         string   `yaml:"id"`
	DatapathID string   `yaml:"datapath_id"`
	Ports      []string `yaml:"ports"`
}

// Endpoint is a host attached to a switch port.
type Endpoint struct {
	ID     string `yaml:"id"`
	IP     string `yaml:"ip"`
	Switch string `yaml:"switch"`
	Port   string `yaml:"port"`
}

// Connect is a cable between two switch ports.
type Connect struct {
	Switch1 string `yaml:"switch1"`
	Port1   string `yaml:"port1"`
	Switch2 string `yaml:"switch2"`
	Port2   string `yaml:"port2"`
}

// GatewayBridge is a gateway endpoint that applies bridge rules.
type GatewayBridge struct {
	ID     string `yaml:"id"`
	Switch string `yaml:"switch"`
	Port   string `yaml:"port"`
}

// GatewayMask is a gateway endpoint with an explicit address and netmask.
type GatewayMask struct {
	ID      string `yaml:"id"`
	IP      string `yaml:"ip"`
	NetMask string `yaml:"netmask"`
	Switch  string `yaml:"switch"`
	Port    string `yaml:"port"`
}

// PortBridge pairs a physical port suffix with the virtual port it bridges.
type PortBridge struct {
	PhysicalPort string `yaml:"pp"`
	VirtualPort  string `yaml:"vp"`
}

// PhysicalHost is a logical-machine physical host. Bridges lists bridged
// physical/virtual port pairs; VirtualPorts lists unbridged virtual ports.
type PhysicalHost struct {
	ID           string       `yaml:"id"`
	Bridges      []PortBridge `yaml:"bridges"`
	VirtualPorts []string     `yaml:"virtual_ports"`
}

// PatchPanel wires the listed port suffixes of a host together.
type PatchPanel struct {
	HostID string   `yaml:"host"`
	Ports  []string `yaml:"ports"`
}

// VirtualHost is a virtual host running on a physical host.
type VirtualHost struct {
	PhysicalHostID string   `yaml:"physical_host"`
	Suffix         string   `yaml:"suffix"`
	VirtualPorts   []string `yaml:"virtual_ports"`
}

// BoundTo binds one identifier to another.
type BoundTo struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func (Switch) Tag() string        { return TagSwitch }
func (Endpoint) Tag() string      { return TagEndpoint }
func (Connect) Tag() string       { return TagConnect }
func (GatewayBridge) Tag() string { return TagGatewayBridge }
func (GatewayMask) Tag() string   { return TagGatewayMask }
func (PhysicalHost) Tag() string  { return TagPhysicalHost }
func (PatchPanel) Tag() string    { return TagPatchPanel }
func (VirtualHost) Tag() string   { return TagVirtualHost }
func (BoundTo) Tag() string       { return TagBoundTo }

func (Switch) isRecord()        {}
func (Endpoint) isRecord()      {}
func (Connect) isRecord()       {}
func (GatewayBridge) isRecord() {}
func (GatewayMask) isRecord()   {}
func (PhysicalHost) isRecord()  {}
func (PatchPanel) isRecord()    {}
func (VirtualHost) isRecord()   {}
func (BoundTo) isRecord()       {}
