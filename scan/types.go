// Package scan defines the wire shape of a radio scan snapshot as posted by
// the mobile client. The server never initiates a scan; it only consumes
// snapshots, and empty or partial device lists are entirely normal input
// (scans time out or run without permissions on the device side).
package scan

// WifiDevice is one observed Wi-Fi access point.
type WifiDevice struct {
	SSID        string `json:"ssid,omitempty"`
	BSSID       string `json:"bssid" binding:"required"`
	SignalLevel int    `json:"signal_level"` // dBm, typically negative
}

// BluetoothDevice is one observed Bluetooth peer.
type BluetoothDevice struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address" binding:"required"`
	RSSI    int    `json:"rssi"` // dBm, typically negative
}

// Snapshot is one best-effort scan result set.
type Snapshot struct {
	WifiDevices      []WifiDevice      `json:"wifi_devices"`
	BluetoothDevices []BluetoothDevice `json:"bluetooth_devices"`
}
