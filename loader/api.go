package loader

import (
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/gherrick0918/SoloDnDApp/types"
)

// luaNode holds a node table before compilation.
type luaNode struct {
	id    string
	kind  types.NodeKind
	table *lua.LTable
}

// collector accumulates Lua declarations during file execution.
type collector struct {
	header *lua.LTable
	nodes  []luaNode
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Campaign { id = "...", title = "...", start = "..." }
	L.SetGlobal("Campaign", L.NewFunction(func(L *lua.LState) int {
		if coll.header != nil {
			L.RaiseError("Campaign declared more than once")
		}
		coll.header = L.CheckTable(1)
		return 0
	}))

	registerNode(L, coll, "Narrative", types.NodeNarrative)
	registerNode(L, coll, "Combat", types.NodeCombat)
	registerNode(L, coll, "End", types.NodeEnd)

	// Choice { id = "...", label = "...", next = "...", check = Check {...} }
	// Check { ability = "str", dc = 12, success = "...", failure = "...", description = "..." }
	// Both are pass-through, returning the table.
	passThrough := func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}
	L.SetGlobal("Choice", L.NewFunction(passThrough))
	L.SetGlobal("Check", L.NewFunction(passThrough))

	// Monster("ref", count): count defaults to 1.
	L.SetGlobal("Monster", L.NewFunction(func(L *lua.LState) int {
		ref := L.CheckString(1)
		count := L.OptInt(2, 1)
		tbl := L.NewTable()
		tbl.RawSetString("ref", lua.LString(ref))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))
}

// registerNode registers a curried node constructor: Kind("id") returns a
// function that takes the node table.
func registerNode(L *lua.LState, coll *collector, name string, kind types.NodeKind) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.nodes = append(coll.nodes, luaNode{id: id, kind: kind, table: tbl})
			return 0
		}))
		return 1
	}))
}

// campaign converts the collected declarations into the raw document form
// shared with JSON campaigns.
func (c *collector) campaign() (rawCampaign, error) {
	if c.header == nil {
		return rawCampaign{}, errors.New("no Campaign { ... } declaration")
	}

	f := &fields{}
	raw := rawCampaign{
		ID:          f.optString(c.header, "Campaign", "id"),
		Title:       f.optString(c.header, "Campaign", "title"),
		StartNodeID: f.optString(c.header, "Campaign", "start"),
	}

	nodes := make([]rawNode, 0, len(c.nodes))
	for _, n := range c.nodes {
		nodes = append(nodes, f.node(n))
	}
	raw.Nodes = &nodes

	if len(f.errs) > 0 {
		return rawCampaign{}, errors.New(strings.Join(f.errs, "; "))
	}
	return raw, nil
}

// fields reads typed values out of Lua tables, recording type mismatches.
type fields struct {
	errs []string
}

func (f *fields) mismatch(path, key, want string, got lua.LValue) {
	f.errs = append(f.errs, fmt.Sprintf("%s: field %q must be %s, got %s",
		path, key, want, got.Type().String()))
}

// optString returns a string field, or nil if missing.
func (f *fields) optString(tbl *lua.LTable, path, key string) *string {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	s, ok := v.(lua.LString)
	if !ok {
		f.mismatch(path, key, "a string", v)
		return nil
	}
	out := string(s)
	return &out
}

// optInt returns an integer field, or nil if missing.
func (f *fields) optInt(tbl *lua.LTable, path, key string) *int {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	n, ok := v.(lua.LNumber)
	if !ok || float64(n) != float64(int(n)) {
		f.mismatch(path, key, "an integer", v)
		return nil
	}
	out := int(n)
	return &out
}

// optTable returns a table field, or nil if missing.
func (f *fields) optTable(tbl *lua.LTable, path, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	t, ok := v.(*lua.LTable)
	if !ok {
		f.mismatch(path, key, "a table", v)
		return nil
	}
	return t
}

// text accepts a single string or a list of strings.
func (f *fields) text(tbl *lua.LTable, path string) []string {
	v := tbl.RawGetString("text")
	switch val := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LString:
		return []string{string(val)}
	case *lua.LTable:
		var lines []string
		for i := 1; i <= val.MaxN(); i++ {
			s, ok := val.RawGetInt(i).(lua.LString)
			if !ok {
				f.mismatch(path, fmt.Sprintf("text[%d]", i), "a string", val.RawGetInt(i))
				continue
			}
			lines = append(lines, string(s))
		}
		return lines
	default:
		f.mismatch(path, "text", "a string or list", v)
		return nil
	}
}

func (f *fields) node(n luaNode) rawNode {
	path := fmt.Sprintf("%s %q", n.kind, n.id)
	id, kind := n.id, string(n.kind)
	raw := rawNode{
		ID:        &id,
		Type:      &kind,
		Title:     f.optString(n.table, path, "title"),
		Text:      f.text(n.table, path),
		OnVictory: f.optString(n.table, path, "on_victory"),
		OnDefeat:  f.optString(n.table, path, "on_defeat"),
	}

	if choices := f.optTable(n.table, path, "choices"); choices != nil {
		for i := 1; i <= choices.MaxN(); i++ {
			t, ok := choices.RawGetInt(i).(*lua.LTable)
			if !ok {
				f.mismatch(path, fmt.Sprintf("choices[%d]", i), "a table", choices.RawGetInt(i))
				continue
			}
			raw.Choices = append(raw.Choices, f.choice(t, fmt.Sprintf("%s choices[%d]", path, i)))
		}
	}

	if monsters := f.optTable(n.table, path, "monsters"); monsters != nil {
		list := make([]rawMonster, 0, monsters.MaxN())
		for i := 1; i <= monsters.MaxN(); i++ {
			t, ok := monsters.RawGetInt(i).(*lua.LTable)
			if !ok {
				f.mismatch(path, fmt.Sprintf("monsters[%d]", i), "a table", monsters.RawGetInt(i))
				continue
			}
			mp := fmt.Sprintf("%s monsters[%d]", path, i)
			list = append(list, rawMonster{
				Ref:   f.optString(t, mp, "ref"),
				Count: f.optInt(t, mp, "count"),
			})
		}
		raw.Encounter = &rawEncounter{Monsters: &list}
	}
	return raw
}

func (f *fields) choice(tbl *lua.LTable, path string) rawChoice {
	c := rawChoice{
		ID:    f.optString(tbl, path, "id"),
		Label: f.optString(tbl, path, "label"),
		Next:  f.optString(tbl, path, "next"),
	}
	if check := f.optTable(tbl, path, "check"); check != nil {
		cp := path + " check"
		c.SkillCheck = &rawSkillCheck{
			Ability:     f.optString(check, cp, "ability"),
			DC:          f.optInt(check, cp, "dc"),
			SuccessNext: f.optString(check, cp, "success"),
			FailureNext: f.optString(check, cp, "failure"),
			Description: f.optString(check, cp, "description"),
		}
	}
	return c
}
