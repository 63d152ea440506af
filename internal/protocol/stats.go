package protocol

// Client stat indices carried by svc_updatestat. Values follow the engine's
// quakedef.h and must not change.
const (
	StatHealth        uint8 = 0
	StatFrags         uint8 = 1
	StatWeapon        uint8 = 2
	StatAmmo          uint8 = 3
	StatArmor         uint8 = 4
	StatWeaponFrame   uint8 = 5
	StatShells        uint8 = 6
	StatNails         uint8 = 7
	StatRockets       uint8 = 8
	StatCells         uint8 = 9
	StatActiveWeapon  uint8 = 10
	StatTotalSecrets  uint8 = 11
	StatTotalMonsters uint8 = 12
	StatSecrets       uint8 = 13 // found secrets
	StatMonsters      uint8 = 14 // killed monsters
)
