package rollout

import "strconv"

// NoActionID is the sentinel persisted when no action has ever been
// installed. It can never equal a valid server-issued ActionID, which are
// always positive.
const NoActionID ActionID = -1

// ActionID identifies a single rollout directed at this device. Server
// documents encode it as a decimal string; it is persisted across reboots
// so the device never installs the same action twice.
type ActionID int32

// Valid reports whether id is a positive, server-issued action id.
func (id ActionID) Valid() bool {
	return id > 0
}

// ParseActionID parses the decimal id string from a deployment descriptor.
func ParseActionID(s string) (ActionID, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return ActionID(n), nil
}

// String returns the decimal representation.
func (id ActionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
