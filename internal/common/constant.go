package common

// AppName is the application namespace used for the default keychain
// service and the default data directory.
const AppName = "empire-desktop"

// TimeLayout is the text layout of every timestamp column in the local
// cache. It matches strftime('%Y-%m-%dT%H:%M:%fZ') so that values produced
// by triggers and by Go code compare lexicographically.
const TimeLayout = "2006-01-02T15:04:05.000Z"
