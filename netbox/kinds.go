package netbox

// Kind names one NetBox resource family. The engine is parameterized over
// kinds through the schema registry; the HTTP client maps each kind to its
// API collection endpoint.
type Kind string

const (
	KindDeviceType                Kind = "device-type"
	KindInterfaceTemplate         Kind = "interface-template"
	KindConsolePortTemplate       Kind = "console-port-template"
	KindPowerPortTemplate         Kind = "power-port-template"
	KindConsoleServerPortTemplate Kind = "console-server-port-template"
	KindPowerOutletTemplate       Kind = "power-outlet-template"
	KindFrontPortTemplate         Kind = "front-port-template"
	KindRearPortTemplate          Kind = "rear-port-template"
	KindDeviceBayTemplate         Kind = "device-bay-template"
	KindModuleBayTemplate         Kind = "module-bay-template"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindDeviceType,
		KindInterfaceTemplate,
		KindConsolePortTemplate,
		KindPowerPortTemplate,
		KindConsoleServerPortTemplate,
		KindPowerOutletTemplate,
		KindFrontPortTemplate,
		KindRearPortTemplate,
		KindDeviceBayTemplate,
		KindModuleBayTemplate:
		return true
	default:
		return false
	}
}
