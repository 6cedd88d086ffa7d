// Package linkaddr defines the 2-byte link-layer node address used
// throughout the duty-cycling MAC: by the packet buffer, the framer,
// the software-ACK header and the core MAC itself.
package linkaddr

import "fmt"

// Addr is a 2-byte link-layer node address. The zero value is the
// broadcast address.
type Addr [2]byte

// Broadcast is the distinguished null address meaning "every neighbor".
var Broadcast = Addr{}

// IsBroadcast reports whether a equals the broadcast address.
func (a Addr) IsBroadcast() bool {
	return a == Broadcast
}

func (a Addr) String() string {
	if a.IsBroadcast() {
		return "broadcast"
	}
	return fmt.Sprintf("%02X%02X", a[0], a[1])
}
