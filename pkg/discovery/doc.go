// Package discovery finds Arena lobby servers on the local network
// via mDNS/DNS-SD.
package discovery
