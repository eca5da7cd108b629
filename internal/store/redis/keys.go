package redis

const (
	// KeyPrefixSlot is the prefix for collection slot keys
	KeyPrefixSlot = "favlauncher:slot:"
	// KeyAllSlots is the key for the set of all slot names
	KeyAllSlots = "favlauncher:slots:all"
)

// SlotKey returns the Redis key for a collection slot
func SlotKey(name string) string {
	return KeyPrefixSlot + name
}

// AllSlotsKey returns the key for the set of all slot names
func AllSlotsKey() string {
	return KeyAllSlots
}
