package properties

import "sort"

// FileName is the settings file the server reads at startup.
const FileName = "server.properties"

// Required lists the settings every server must be given, in the order they are written.
var Required = []string{"motd", "max-players", "server-port", "online-mode"}

// Tuning is the fixed block written before any operator setting.
var Tuning = []Entry{
	{Key: "enforce-secure-profile", Value: "false"},
	{Key: "difficulty", Value: "hard"},
	{Key: "allow-flight", Value: "true"},
	{Key: "view-distance", Value: "32"},
	{Key: "sync-chunk-writes", Value: "false"},
	{Key: "entity-broadcast-range-percentage", Value: "500"},
	{Key: "simulation-distance", Value: "32"},
	{Key: "spawn-protection", Value: "0"},
}

// RequiredDefaults are suggested answers for the required settings.
var RequiredDefaults = map[string]string{
	"motd":        "A Minecraft Server",
	"max-players": "20",
	"server-port": "25565",
	"online-mode": "true",
}

// otherKeys are the remaining server.properties keys an operator may set.
var otherKeys = []string{
	"snooper-enabled",
	"enable-jmx-monitoring",
	"rcon.port",
	"level-seed",
	"gamemode",
	"enable-command-block",
	"enable-query",
	"generator-settings",
	"level-name",
	"query.port",
	"pvp",
	"generate-structures",
	"max-chained-neighbor-updates",
	"network-compression-threshold",
	"max-tick-time",
	"require-resource-pack",
	"use-native-transport",
	"enable-status",
	"initial-disabled-packs",
	"broadcast-rcon-to-ops",
	"server-ip",
	"resource-pack-prompt",
	"allow-nether",
	"enable-rcon",
	"op-permission-level",
	"prevent-proxy-connections",
	"hide-online-players",
	"resource-pack",
	"rcon.password",
	"player-idle-timeout",
	"force-gamemode",
	"rate-limit",
	"hardcore",
	"white-list",
	"broadcast-console-to-ops",
	"spawn-npcs",
	"spawn-animals",
	"function-permission-level",
	"initial-enabled-packs",
	"level-type",
	"text-filtering-config",
	"spawn-monsters",
	"enforce-whitelist",
	"resource-pack-sha1",
	"max-world-size",
}

var (
	allowed  = map[string]bool{}
	required = map[string]bool{}
)

func init() {
	for _, key := range Required {
		allowed[key] = true
		required[key] = true
	}
	for _, entry := range Tuning {
		allowed[entry.Key] = true
	}
	for _, key := range otherKeys {
		allowed[key] = true
	}
}

// IsAllowed reports whether key is a setting the operator may supply.
func IsAllowed(key string) bool {
	return allowed[key]
}

// IsRequired reports whether key is one of the required settings.
func IsRequired(key string) bool {
	return required[key]
}

// Optional returns every allowed key that is not required, sorted.
func Optional() []string {
	keys := make([]string, 0, len(allowed)-len(required))
	for key := range allowed {
		if !required[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
