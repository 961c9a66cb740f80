package eventmodels

import "strconv"

// MessageHandle identifies a posted notification so it can be retracted later.
type MessageHandle int64

func (h MessageHandle) String() string {
	return strconv.FormatInt(int64(h), 10)
}
