package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/gherrick0918/SoloDnDApp/engine/dicetest"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// testCampaign builds a small campaign: a crossroads with every kind of
// narrative choice, a goblin fight, an empty combat node and two endings.
func testCampaign() types.Campaign {
	goblin := &types.EncounterSpec{Monsters: []types.MonsterSpec{{Ref: "srd_goblin", Count: 1}}}
	return types.Campaign{
		ID:          "test",
		Title:       "Test Campaign",
		StartNodeID: "start",
		Nodes: []types.Node{
			{
				ID:    "start",
				Kind:  types.NodeNarrative,
				Title: "Crossroads",
				Text:  []string{"Roads lead everywhere.", "A cliff looms."},
				Choices: []types.Choice{
					{ID: "walk", Label: "Walk the road", Next: "road"},
					{ID: "climb", Label: "Climb the cliff", SkillCheck: &types.SkillCheck{
						AbilityName: "str", DC: 12, SuccessNext: "cliff", FailureNext: "fall",
						Description: "The cliff is steep.",
					}},
					{ID: "ponder", Label: "Ponder", SkillCheck: &types.SkillCheck{
						AbilityName: "WIS", DC: 5,
					}},
					{ID: "luck", Label: "Trust luck", SkillCheck: &types.SkillCheck{AbilityName: "luck", DC: 10}},
					{ID: "both", Label: "Both", Next: "road", SkillCheck: &types.SkillCheck{
						AbilityName: "dex", DC: 30, FailureNext: "fall",
					}},
					{ID: "stare", Label: "Stare"},
					{ID: "broken", Label: "Broken path", Next: "missing"},
					{ID: "pit", Label: "Jump in the pit", Next: "pit"},
					{ID: "empty", Label: "Empty arena", Next: "empty_arena"},
					{ID: "arena", Label: "Arena", Next: "arena"},
				},
			},
			{
				ID:        "road",
				Kind:      types.NodeCombat,
				Title:     "Ambush",
				Text:      []string{"A goblin leaps out!"},
				Choices:   []types.Choice{{ID: "attack", Label: "Attack"}, {ID: "continue", Label: "Press on"}},
				Encounter: goblin,
				OnVictory: "camp",
				OnDefeat:  "grave",
			},
			{
				ID:        "pit",
				Kind:      types.NodeCombat,
				Choices:   []types.Choice{{ID: "attack", Label: "Attack"}},
				Encounter: goblin,
				OnVictory: "start",
			},
			{
				ID:        "arena",
				Kind:      types.NodeCombat,
				Choices:   []types.Choice{{ID: "attack", Label: "Attack"}},
				Encounter: goblin,
			},
			{ID: "empty_arena", Kind: types.NodeCombat, OnVictory: "camp"},
			{ID: "cliff", Kind: types.NodeNarrative, Text: []string{"You reach the top."}},
			{ID: "fall", Kind: types.NodeNarrative, Text: []string{"You fall."}},
			{
				ID:      "camp",
				Kind:    types.NodeEnd,
				Title:   "Camp",
				Text:    []string{"You rest."},
				Choices: []types.Choice{{ID: "again", Label: "Play again", Next: "start"}},
			},
			{ID: "grave", Kind: types.NodeEnd, Text: []string{"Here lies a hero."}},
		},
	}
}

func testCharacter() types.Character {
	return types.Character{
		Name:             "Tamsin",
		Level:            1,
		Abilities:        types.AbilityScores{Str: 16, Dex: 12, Con: 14, Int: 10, Wis: 8, Cha: 10},
		MaxHP:            12,
		CurrentHP:        12,
		AC:               16,
		ProficiencyBonus: 2,
	}
}

func newScripted(t *testing.T, rolls ...int) (*Engine, *dicetest.Scripted) {
	t.Helper()
	roller := dicetest.New(rolls...)
	e := New(testCampaign(), testCharacter(), 1,
		WithRoller(roller), WithLogger(zaptest.NewLogger(t)))
	return e, roller
}

func mustChoose(t *testing.T, e *Engine, id string) {
	t.Helper()
	if err := e.Choose(id); err != nil {
		t.Fatalf("Choose(%q): %v", id, err)
	}
}

func mustView(t *testing.T, e *Engine) types.NodeView {
	t.Helper()
	v, err := e.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	return v
}

func TestChoose_DirectTransition_ClearsLog(t *testing.T) {
	e, _ := newScripted(t)
	e.State().LastLog = "stale"

	mustChoose(t, e, "walk")

	if e.State().CurrentNodeID != "road" {
		t.Errorf("expected node road, got %q", e.State().CurrentNodeID)
	}
	if e.State().LastLog != "" {
		t.Errorf("expected log cleared, got %q", e.State().LastLog)
	}
}

func TestChoose_SkillCheck_BoundaryIsSuccess(t *testing.T) {
	e, _ := newScripted(t, 9) // 9 + 3 = 12 vs DC 12

	mustChoose(t, e, "climb")

	want := "The cliff is steep.\nSkill check (str, DC 12): rolled 9 + 3 = 12 => success"
	if e.State().LastLog != want {
		t.Errorf("log =\n%q\nwant\n%q", e.State().LastLog, want)
	}
	if e.State().CurrentNodeID != "cliff" {
		t.Errorf("expected node cliff, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_SkillCheck_Failure(t *testing.T) {
	e, _ := newScripted(t, 8) // 8 + 3 = 11 vs DC 12

	mustChoose(t, e, "climb")

	if !strings.HasSuffix(e.State().LastLog, "rolled 8 + 3 = 11 => failure") {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
	if e.State().CurrentNodeID != "fall" {
		t.Errorf("expected node fall, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_SkillCheck_NegativeModifierAndNoBranch(t *testing.T) {
	e, _ := newScripted(t, 6) // WIS 8 → -1

	mustChoose(t, e, "ponder")

	want := "Skill check (WIS, DC 5): rolled 6 + -1 = 5 => success"
	if e.State().LastLog != want {
		t.Errorf("log = %q, want %q", e.State().LastLog, want)
	}
	if e.State().CurrentNodeID != "start" {
		t.Errorf("missing branch should stay put, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_SkillCheck_TakesPrecedenceOverNext(t *testing.T) {
	e, _ := newScripted(t, 1)

	mustChoose(t, e, "both")

	if e.State().CurrentNodeID != "fall" {
		t.Errorf("skill check should win over next, got node %q", e.State().CurrentNodeID)
	}
}

func TestChoose_SkillCheck_UnknownAbility(t *testing.T) {
	e, roller := newScripted(t)

	mustChoose(t, e, "luck")

	if e.State().LastLog != "Unknown ability in skill check: luck" {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
	if e.State().CurrentNodeID != "start" {
		t.Errorf("expected no transition, got %q", e.State().CurrentNodeID)
	}
	if roller.Used() != 0 {
		t.Errorf("unknown ability should not roll, used %d", roller.Used())
	}
}

func TestChoose_NowhereToGo(t *testing.T) {
	e, _ := newScripted(t)

	mustChoose(t, e, "stare")

	if e.State().LastLog != "Nowhere to go from here." {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
	if e.State().CurrentNodeID != "start" {
		t.Errorf("expected no transition, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_UnknownChoice_NoTransition(t *testing.T) {
	e, _ := newScripted(t)

	for _, id := range []string{"xyzzy", "", "attack", "WALK"} {
		mustChoose(t, e, id)
		if e.State().CurrentNodeID != "start" {
			t.Fatalf("choice %q moved to %q", id, e.State().CurrentNodeID)
		}
		if e.State().LastLog != "Unknown choice: "+id {
			t.Errorf("choice %q: log %q", id, e.State().LastLog)
		}
	}
}

func TestChoose_EndNode_Idempotent(t *testing.T) {
	e, _ := newScripted(t)
	e.State().CurrentNodeID = "camp"

	for _, id := range []string{"again", "anything", ""} {
		mustChoose(t, e, id)
		if e.State().CurrentNodeID != "camp" {
			t.Fatalf("end node moved to %q on %q", e.State().CurrentNodeID, id)
		}
		if e.State().LastLog != "The adventure is over." {
			t.Errorf("unexpected log %q", e.State().LastLog)
		}
	}
}

func TestChoose_CombatVictory(t *testing.T) {
	e, _ := newScripted(t, 20, 4) // hit, 4 + 3 = 7 kills the goblin
	mustChoose(t, e, "walk")

	mustChoose(t, e, "attack")

	want := "You hit Goblin for 7 damage!\nYou won the fight!"
	if e.State().LastLog != want {
		t.Errorf("log = %q, want %q", e.State().LastLog, want)
	}
	if e.State().CurrentNodeID != "camp" {
		t.Errorf("expected node camp, got %q", e.State().CurrentNodeID)
	}
	if e.State().Character.CurrentHP != 12 {
		t.Errorf("hero HP = %d, want 12", e.State().Character.CurrentHP)
	}
	enc := e.State().Encounters["road"]
	if enc == nil || enc.InProgress {
		t.Errorf("expected finished encounter, got %+v", enc)
	}
}

func TestChoose_CombatSingleHPMonster(t *testing.T) {
	e, _ := newScripted(t, 20, 1)
	mustChoose(t, e, "walk")
	e.State().Encounters["road"] = &types.Encounter{
		NodeID:     "road",
		Monsters:   []types.Monster{{Name: "Rat", AC: 5, MaxHP: 1, CurrentHP: 1, AttackBonus: 0, DamageDiceCount: 1, DamageDiceSides: 4}},
		InProgress: true,
	}

	mustChoose(t, e, "attack")

	if e.State().CurrentNodeID != "camp" {
		t.Errorf("expected victory transition, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_CombatDefeat(t *testing.T) {
	e, _ := newScripted(t, 1, 20, 1) // miss, goblin hits for 1
	e.State().Character.CurrentHP = 1
	mustChoose(t, e, "walk")

	mustChoose(t, e, "attack")

	want := "You miss Goblin.\nGoblin hits you for 1 damage!\nYou have been defeated..."
	if e.State().LastLog != want {
		t.Errorf("log = %q, want %q", e.State().LastLog, want)
	}
	if e.State().CurrentNodeID != "grave" {
		t.Errorf("expected node grave, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_CombatDefeat_NoTarget(t *testing.T) {
	e, _ := newScripted(t, 1, 20, 1)
	e.State().Character.CurrentHP = 1
	mustChoose(t, e, "arena")

	mustChoose(t, e, "attack")

	if e.State().CurrentNodeID != "arena" {
		t.Errorf("defeat without target should stay, got %q", e.State().CurrentNodeID)
	}
	if strings.Contains(e.State().LastLog, "defeated") {
		t.Errorf("no defeat line expected without target: %q", e.State().LastLog)
	}
}

func TestChoose_CombatVictory_NoTarget(t *testing.T) {
	e, _ := newScripted(t, 20, 4)
	mustChoose(t, e, "arena")

	mustChoose(t, e, "attack")

	if e.State().CurrentNodeID != "arena" {
		t.Errorf("victory without target should stay, got %q", e.State().CurrentNodeID)
	}
	if !strings.HasSuffix(e.State().LastLog, "You have won, but the story has nowhere to go.") {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
}

func TestChoose_CombatContinue_MonstersStillAttack(t *testing.T) {
	e, _ := newScripted(t, 19, 5)
	mustChoose(t, e, "walk")

	mustChoose(t, e, "continue")

	if e.State().LastLog != "You press on...\nGoblin hits you for 5 damage!" {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
	if e.State().Character.CurrentHP != 7 {
		t.Errorf("hero HP = %d, want 7", e.State().Character.CurrentHP)
	}
	if e.State().CurrentNodeID != "road" {
		t.Errorf("fight should continue, got %q", e.State().CurrentNodeID)
	}
}

func TestChoose_CombatUnknownAction(t *testing.T) {
	e, _ := newScripted(t, 2)
	mustChoose(t, e, "walk")

	mustChoose(t, e, "flee")

	if e.State().LastLog != "Unknown combat choice: flee\nGoblin misses you." {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
}

func TestChoose_CombatNoEncounter(t *testing.T) {
	e, roller := newScripted(t)
	mustChoose(t, e, "empty")

	mustChoose(t, e, "attack")

	if e.State().LastLog != "No encounter to resolve." {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
	if e.State().CurrentNodeID != "empty_arena" || roller.Used() != 0 {
		t.Error("empty combat node should not move or roll")
	}
}

func TestChoose_ReenteringResolvedCombatReusesEncounter(t *testing.T) {
	e, roller := newScripted(t, 20, 4)
	mustChoose(t, e, "pit")
	mustChoose(t, e, "attack") // kills the goblin, back to start
	if e.State().CurrentNodeID != "start" {
		t.Fatalf("expected start after pit victory, got %q", e.State().CurrentNodeID)
	}
	first := e.State().Encounters["pit"]

	mustChoose(t, e, "pit")
	mustChoose(t, e, "attack")

	if e.State().Encounters["pit"] != first {
		t.Error("expected the cached encounter to be reused")
	}
	if e.State().LastLog != "There is nothing left to attack.\nYou won the fight!" {
		t.Errorf("unexpected log %q", e.State().LastLog)
	}
	if roller.Used() != 2 {
		t.Errorf("replaying a finished encounter should not roll, used %d", roller.Used())
	}
}

func TestChoose_EncountersArePerNode(t *testing.T) {
	e, _ := newScripted(t, 20, 4, 20, 1, 1) // road goblin survives at 3 HP and misses
	mustChoose(t, e, "pit")
	mustChoose(t, e, "attack")

	mustChoose(t, e, "walk")
	mustChoose(t, e, "attack")

	enc := e.State().Encounters["road"]
	if enc == nil || enc.Monsters[0].CurrentHP != 3 {
		t.Errorf("road should get its own fresh goblin, got %+v", enc)
	}
}

func TestChoose_BrokenGraph_Recoverable(t *testing.T) {
	e, _ := newScripted(t)

	err := e.Choose("broken")
	if !errors.Is(err, ErrBrokenGraph) {
		t.Fatalf("expected ErrBrokenGraph, got %v", err)
	}
	var bg *BrokenGraphError
	if !errors.As(err, &bg) || bg.NodeID != "missing" || bg.From != "start" {
		t.Errorf("unexpected error detail %v", err)
	}
	if e.State().CurrentNodeID != "start" {
		t.Errorf("broken transition should not apply, node %q", e.State().CurrentNodeID)
	}

	// Session stays usable.
	mustView(t, e)
	mustChoose(t, e, "walk")
	if e.State().CurrentNodeID != "road" {
		t.Errorf("expected road, got %q", e.State().CurrentNodeID)
	}
}

func TestEngine_MissingStartNode(t *testing.T) {
	c := testCampaign()
	c.StartNodeID = "nope"
	e := New(c, testCharacter(), 1)

	if _, err := e.View(); !errors.Is(err, ErrBrokenGraph) {
		t.Errorf("View: expected ErrBrokenGraph, got %v", err)
	}
	if err := e.Choose("walk"); !errors.Is(err, ErrBrokenGraph) {
		t.Errorf("Choose: expected ErrBrokenGraph, got %v", err)
	}
}

func TestChoose_CountsTurns(t *testing.T) {
	e, _ := newScripted(t)
	mustChoose(t, e, "stare")
	mustChoose(t, e, "nope")
	if e.State().Turn != 2 {
		t.Errorf("Turn = %d, want 2", e.State().Turn)
	}
}

func TestView_Projection(t *testing.T) {
	e, _ := newScripted(t)

	v := mustView(t, e)
	if v.Title != "Crossroads" {
		t.Errorf("Title = %q", v.Title)
	}
	if !reflect.DeepEqual(v.Text, []string{"Roads lead everywhere.", "A cliff looms."}) {
		t.Errorf("Text = %q", v.Text)
	}
	if len(v.Choices) != 10 || v.Choices[0] != (types.ChoiceView{ID: "walk", Label: "Walk the road"}) {
		t.Errorf("Choices = %+v", v.Choices)
	}
	want := types.CharacterSummary{Name: "Tamsin", Level: 1, CurrentHP: 12, MaxHP: 12}
	if v.CharacterSummary != want {
		t.Errorf("CharacterSummary = %+v", v.CharacterSummary)
	}
	if v.Log != "" {
		t.Errorf("Log = %q", v.Log)
	}
}

func TestView_AppendsLog(t *testing.T) {
	e, _ := newScripted(t)
	mustChoose(t, e, "stare")

	v := mustView(t, e)
	want := []string{"Roads lead everywhere.", "A cliff looms.", "", "Nowhere to go from here."}
	if !reflect.DeepEqual(v.Text, want) {
		t.Errorf("Text = %q, want %q", v.Text, want)
	}
	if v.Log != "Nowhere to go from here." {
		t.Errorf("Log = %q", v.Log)
	}
}

func TestView_EndNodeHidesChoices(t *testing.T) {
	e, _ := newScripted(t)
	e.State().CurrentNodeID = "camp"

	v := mustView(t, e)
	if len(v.Choices) != 0 {
		t.Errorf("end node should expose no choices, got %+v", v.Choices)
	}
}

func TestView_Pure(t *testing.T) {
	e, _ := newScripted(t)
	mustChoose(t, e, "stare")

	v1 := mustView(t, e)
	v1.Text[0] = "mutated"
	v1.Choices[0].Label = "mutated"
	v2 := mustView(t, e)
	v3 := mustView(t, e)

	if !reflect.DeepEqual(v2, v3) {
		t.Errorf("consecutive views differ:\n%+v\n%+v", v2, v3)
	}
	if v2.Text[0] == "mutated" || v2.Choices[0].Label == "mutated" {
		t.Error("mutating a view leaked into the campaign")
	}
	if e.State().Turn != 1 {
		t.Errorf("View should not advance turns, got %d", e.State().Turn)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	script := []string{"climb", "walk", "attack", "continue", "attack", "attack", "attack", "continue", "attack"}

	run := func() []types.NodeView {
		c := testCampaign()
		c.Nodes[0].Choices[1].SkillCheck.SuccessNext = "start"
		c.Nodes[0].Choices[1].SkillCheck.FailureNext = "start"
		e := New(c, testCharacter(), 42)
		var views []types.NodeView
		for _, id := range script {
			if err := e.Choose(id); err != nil {
				t.Fatalf("Choose(%q): %v", id, err)
			}
			v, err := e.View()
			if err != nil {
				t.Fatalf("View: %v", err)
			}
			views = append(views, v)
		}
		return views
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs with the same seed and choices diverged")
	}
}

func TestEngine_SeededRNGAdvances(t *testing.T) {
	e := New(testCampaign(), testCharacter(), 7)
	mustChoose(t, e, "climb")
	if e.RNG().Position() != 1 {
		t.Errorf("skill check should draw one die, position %d", e.RNG().Position())
	}
	if e.RNG().Seed() != 7 {
		t.Errorf("Seed() = %d", e.RNG().Seed())
	}
}
