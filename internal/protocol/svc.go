package protocol

import "fmt"

// Protocol versions understood by the demo reader.
const (
	ProtocolNetQuake  uint32 = 15
	ProtocolFitzQuake uint32 = 666
	ProtocolRMQ       uint32 = 999
)

// RMQ protocol flags, sent after the version in svc_serverinfo when the
// protocol is ProtocolRMQ. They select coordinate and angle encodings.
const (
	FlagShortAngle uint32 = 1 << 1
	FlagFloatAngle uint32 = 1 << 2
	FlagCoord24    uint32 = 1 << 3
	FlagFloatCoord uint32 = 1 << 4
	FlagEdictScale uint32 = 1 << 5
	FlagInt32Coord uint32 = 1 << 7
)

// IsSupported reports whether the reader can frame messages for version.
func IsSupported(version uint32) bool {
	switch version {
	case ProtocolNetQuake, ProtocolFitzQuake, ProtocolRMQ:
		return true
	}
	return false
}

// MessageType is the command byte that starts every server message.
type MessageType uint8

// Server message types. Values at or above FastUpdate are entity updates
// whose low seven bits carry update flags.
const (
	SvcBad              MessageType = 0
	SvcNop              MessageType = 1
	SvcDisconnect       MessageType = 2
	SvcUpdateStat       MessageType = 3
	SvcVersion          MessageType = 4
	SvcSetView          MessageType = 5
	SvcSound            MessageType = 6
	SvcTime             MessageType = 7
	SvcPrint            MessageType = 8
	SvcStuffText        MessageType = 9
	SvcSetAngle         MessageType = 10
	SvcServerInfo       MessageType = 11
	SvcLightStyle       MessageType = 12
	SvcUpdateName       MessageType = 13
	SvcUpdateFrags      MessageType = 14
	SvcClientData       MessageType = 15
	SvcStopSound        MessageType = 16
	SvcUpdateColors     MessageType = 17
	SvcParticle         MessageType = 18
	SvcDamage           MessageType = 19
	SvcSpawnStatic      MessageType = 20
	SvcSpawnBinary      MessageType = 21
	SvcSpawnBaseline    MessageType = 22
	SvcTempEntity       MessageType = 23
	SvcSetPause         MessageType = 24
	SvcSignonNum        MessageType = 25
	SvcCenterPrint      MessageType = 26
	SvcKilledMonster    MessageType = 27
	SvcFoundSecret      MessageType = 28
	SvcSpawnStaticSound MessageType = 29
	SvcIntermission     MessageType = 30
	SvcFinale           MessageType = 31
	SvcCDTrack          MessageType = 32
	SvcSellScreen       MessageType = 33
	SvcCutscene         MessageType = 34

	// FitzQuake additions
	SvcSkybox            MessageType = 37
	SvcBonusFlash        MessageType = 40
	SvcFog               MessageType = 41
	SvcSpawnBaseline2    MessageType = 42
	SvcSpawnStatic2      MessageType = 43
	SvcSpawnStaticSound2 MessageType = 44

	FastUpdate MessageType = 0x80
)

var messageNames = map[MessageType]string{
	SvcBad:               "svc_bad",
	SvcNop:               "svc_nop",
	SvcDisconnect:        "svc_disconnect",
	SvcUpdateStat:        "svc_updatestat",
	SvcVersion:           "svc_version",
	SvcSetView:           "svc_setview",
	SvcSound:             "svc_sound",
	SvcTime:              "svc_time",
	SvcPrint:             "svc_print",
	SvcStuffText:         "svc_stufftext",
	SvcSetAngle:          "svc_setangle",
	SvcServerInfo:        "svc_serverinfo",
	SvcLightStyle:        "svc_lightstyle",
	SvcUpdateName:        "svc_updatename",
	SvcUpdateFrags:       "svc_updatefrags",
	SvcClientData:        "svc_clientdata",
	SvcStopSound:         "svc_stopsound",
	SvcUpdateColors:      "svc_updatecolors",
	SvcParticle:          "svc_particle",
	SvcDamage:            "svc_damage",
	SvcSpawnStatic:       "svc_spawnstatic",
	SvcSpawnBinary:       "svc_spawnbinary",
	SvcSpawnBaseline:     "svc_spawnbaseline",
	SvcTempEntity:        "svc_temp_entity",
	SvcSetPause:          "svc_setpause",
	SvcSignonNum:         "svc_signonnum",
	SvcCenterPrint:       "svc_centerprint",
	SvcKilledMonster:     "svc_killedmonster",
	SvcFoundSecret:       "svc_foundsecret",
	SvcSpawnStaticSound:  "svc_spawnstaticsound",
	SvcIntermission:      "svc_intermission",
	SvcFinale:            "svc_finale",
	SvcCDTrack:           "svc_cdtrack",
	SvcSellScreen:        "svc_sellscreen",
	SvcCutscene:          "svc_cutscene",
	SvcSkybox:            "svc_skybox",
	SvcBonusFlash:        "svc_bf",
	SvcFog:               "svc_fog",
	SvcSpawnBaseline2:    "svc_spawnbaseline2",
	SvcSpawnStatic2:      "svc_spawnstatic2",
	SvcSpawnStaticSound2: "svc_spawnstaticsound2",
}

// IsFastUpdate reports whether t is an entity update rather than a svc command.
func (t MessageType) IsFastUpdate() bool {
	return t&FastUpdate != 0
}

func (t MessageType) String() string {
	if t.IsFastUpdate() {
		return "fast_update"
	}
	if name, ok := messageNames[t]; ok {
		return name
	}
	return fmt.Sprintf("svc_unknown(%d)", uint8(t))
}
