package geofence

import "errors"

// ErrNotInUSA is returned when coordinates fall outside every approved
// region. Its text is shown directly to the submitting user.
var ErrNotInUSA = errors.New("Location must be in the USA")
