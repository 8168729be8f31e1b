// Package bind builds [lang.Env] environments from sources outside the
// expression language: YAML documents, Lua scripts and facts about the host.
//
// Every binding is lazy. A value is produced only when an evaluation reads
// the name, so a source that changes between evaluations (a Lua script
// advanced with [Lua.Tick], the wall clock) is observed afresh each time.
//
// Nested structure is flattened into dotted names. The YAML mapping
//
//	player:
//	  health: 4
//	  name: Steve
//
// binds player.health and player.name, which expressions reference directly:
//
//	player.health < 5 && player.name == "Steve"
package bind
