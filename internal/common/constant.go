package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// access token on outbound cloud requests.
const AuthorizationHeaderName = "Authorization"

// InstanceHeaderName carries the per-install client instance id so the
// backend can distinguish devices sharing one account.
const InstanceHeaderName = "X-Client-Instance"

// CheckInMethodHotspot tags attendance entries that were observed over the
// operator's local Wi-Fi network rather than scanned or entered manually.
const CheckInMethodHotspot = "hotspot"
