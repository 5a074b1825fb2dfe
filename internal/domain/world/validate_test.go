package world

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func threeKingdoms() State {
	return State{
		Time: 0,
		Characters: map[string]Character{
			"player":    {Alive: true, Location: "xu_zhou", AffinityToPlayer: 100},
			"liu_bei":   {Alive: true, Location: "xu_zhou", AffinityToPlayer: 50},
			"dead_char": {Alive: false, Location: "grave", AffinityToPlayer: 0},
		},
		Items: map[string]Item{
			"sword_1": {Owner: "liu_bei"},
			"seal_1":  {Owner: "player"},
		},
		Events: []Event{},
	}
}

func TestValidate_SchemaCompleteness(t *testing.T) {
	base := Meta{Actor: DefaultActor, Intent: "do it"}
	cases := []struct {
		name   string
		action Action
		want   string
	}{
		{name: "move without destination", action: Move{Meta: base}, want: "move requires to_location"},
		{name: "give without item", action: GiveItem{Meta: base, Target: "liu_bei"}, want: "give_item requires item"},
		{name: "give without target", action: GiveItem{Meta: base, Item: "seal_1"}, want: "give_item requires target"},
		{name: "attack without target", action: Attack{Meta: base}, want: "attack requires target"},
		{name: "rescue without target", action: Rescue{Meta: base}, want: "rescue requires target"},
		{name: "missing intent", action: Talk{Meta: Meta{Actor: DefaultActor}, Target: "liu_bei"}, want: "talk requires intent"},
		{name: "blank intent", action: Move{Meta: Meta{Actor: DefaultActor, Intent: "  "}, ToLocation: "luo_yang"}, want: "move requires intent"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(threeKingdoms(), tc.action)
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("expected ErrSchema, got %v", err)
			}
			rej, ok := AsRejection(err)
			if !ok || rej.Rule != RuleSchema {
				t.Fatalf("expected schema rejection, got %#v", err)
			}
			if rej.Reason != tc.want {
				t.Fatalf("reason mismatch: got=%q want=%q", rej.Reason, tc.want)
			}
		})
	}
}

func TestValidate_TalkWithoutTargetIsAccepted(t *testing.T) {
	err := Validate(threeKingdoms(), Talk{Meta: Meta{Actor: DefaultActor, Intent: "自言自语"}})
	if err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
}

func TestValidate_RejectsInteractionWithDeadTarget(t *testing.T) {
	base := Meta{Actor: DefaultActor, Intent: "interact"}
	actions := []Action{
		Talk{Meta: base, Target: "dead_char"},
		Rescue{Meta: base, Target: "dead_char"},
		Attack{Meta: base, Target: "dead_char"},
		GiveItem{Meta: base, Target: "dead_char", Item: "seal_1"},
	}
	for _, a := range actions {
		t.Run(string(a.Type()), func(t *testing.T) {
			err := Validate(threeKingdoms(), a)
			if !errors.Is(err, ErrInvariantViolation) {
				t.Fatalf("expected invariant violation, got %v", err)
			}
			rej, _ := AsRejection(err)
			if rej.Rule != RuleLife {
				t.Fatalf("expected life rule, got %q", rej.Rule)
			}
			if !strings.Contains(rej.Reason, "dead_char") || !strings.Contains(rej.Reason, string(a.Type())) {
				t.Fatalf("reason must name target and action type: %q", rej.Reason)
			}
		})
	}
}

func TestValidate_RejectsUnknownTarget(t *testing.T) {
	err := Validate(threeKingdoms(), Attack{Meta: Meta{Actor: DefaultActor, Intent: "攻击"}, Target: "cao_cao"})
	rej, ok := AsRejection(err)
	if !ok || rej.Rule != RuleLife {
		t.Fatalf("expected life rejection, got %v", err)
	}
	if got, want := rej.Reason, "target cao_cao does not exist, cannot attack"; got != want {
		t.Fatalf("reason mismatch: got=%q want=%q", got, want)
	}
}

func TestValidate_ActorGuards(t *testing.T) {
	s := threeKingdoms()

	err := Validate(s, Move{Meta: Meta{Actor: "dead_char", Intent: "移动"}, ToLocation: "luo_yang"})
	if rej, ok := AsRejection(err); !ok || rej.Reason != "actor dead_char is dead, cannot move" {
		t.Fatalf("expected dead actor rejection, got %v", err)
	}

	err = Validate(s, Move{Meta: Meta{Actor: "ghost", Intent: "移动"}, ToLocation: "luo_yang"})
	if rej, ok := AsRejection(err); !ok || rej.Reason != "actor ghost does not exist, cannot move" {
		t.Fatalf("expected unknown actor rejection, got %v", err)
	}

	delete(s.Characters, "player")
	if err := Validate(s, Move{Meta: Meta{Actor: DefaultActor, Intent: "移动"}, ToLocation: "luo_yang"}); err != nil {
		t.Fatalf("default actor may act before it has a record: %v", err)
	}
}

func TestValidate_GiveItemOwnership(t *testing.T) {
	s := threeKingdoms()

	err := Validate(s, GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "把剑给你"}, Target: "liu_bei", Item: "sword_1"})
	rej, ok := AsRejection(err)
	if !ok || rej.Rule != RuleOwnership {
		t.Fatalf("expected ownership rejection, got %v", err)
	}
	if got, want := rej.Reason, "item sword_1 is owned by liu_bei, not player"; got != want {
		t.Fatalf("reason mismatch: got=%q want=%q", got, want)
	}

	err = Validate(s, GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "给"}, Target: "liu_bei", Item: "jade_1"})
	if rej, ok := AsRejection(err); !ok || rej.Reason != "item jade_1 does not exist" {
		t.Fatalf("expected missing item rejection, got %v", err)
	}

	s.Items["unowned"] = Item{}
	err = Validate(s, GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "给"}, Target: "liu_bei", Item: "unowned"})
	if rej, ok := AsRejection(err); !ok || rej.Reason != "item unowned is owned by nobody, not player" {
		t.Fatalf("expected unowned rejection, got %v", err)
	}

	if err := Validate(s, GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "给你玉玺"}, Target: "liu_bei", Item: "seal_1"}); err != nil {
		t.Fatalf("expected owner to give item, got %v", err)
	}
}

func TestValidate_Timeline(t *testing.T) {
	s := threeKingdoms()
	s.Time = 5
	s.Events = []Event{{ID: "event_1", Time: 2, Type: ActionMove, Actor: DefaultActor}}

	err := Validate(s, Move{Meta: Meta{Actor: DefaultActor, Intent: "移动", EventID: "event_1"}, ToLocation: "luo_yang"})
	if rej, ok := AsRejection(err); !ok || rej.Rule != RuleTimeline || rej.Reason != "event event_1 has already occurred" {
		t.Fatalf("expected duplicate event rejection, got %v", err)
	}

	s.Time = 10
	s.Events = []Event{
		{ID: "event_1", Time: 5, Type: ActionMove, Actor: DefaultActor},
		{ID: "event_3", Time: 12, Type: ActionMove, Actor: DefaultActor},
	}
	err = Validate(s, Move{Meta: Meta{Actor: DefaultActor, Intent: "移动", EventID: "event_4"}, ToLocation: "luo_yang"})
	if rej, ok := AsRejection(err); !ok || rej.Reason != "event event_4 time 11 precedes latest event time 12" {
		t.Fatalf("expected non-monotonic rejection, got %v", err)
	}

	s.Events[1].Time = 11
	if err := Validate(s, Move{Meta: Meta{Actor: DefaultActor, Intent: "移动", EventID: "event_4"}, ToLocation: "luo_yang"}); err != nil {
		t.Fatalf("equal event time keeps order non-decreasing: %v", err)
	}
}

func TestValidate_LocationMustNotBeBlank(t *testing.T) {
	err := Validate(threeKingdoms(), Move{Meta: Meta{Actor: DefaultActor, Intent: "移动"}, ToLocation: "   "})
	if rej, ok := AsRejection(err); !ok || rej.Rule != RuleLocation {
		t.Fatalf("expected location rejection, got %v", err)
	}
	if err := Validate(threeKingdoms(), Move{Meta: Meta{Actor: DefaultActor, Intent: "移动"}, ToLocation: "anywhere_at_all"}); err != nil {
		t.Fatalf("any destination is reachable: %v", err)
	}
}

func TestValidate_RuleOrderSchemaBeforeLife(t *testing.T) {
	err := Validate(threeKingdoms(), GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "给"}, Target: "dead_char"})
	if rej, ok := AsRejection(err); !ok || rej.Rule != RuleSchema {
		t.Fatalf("expected schema rule first, got %v", err)
	}
	err = Validate(threeKingdoms(), GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "给"}, Target: "dead_char", Item: "sword_1"})
	if rej, ok := AsRejection(err); !ok || rej.Rule != RuleLife {
		t.Fatalf("expected life rule before ownership, got %v", err)
	}
}

func TestValidate_DoesNotMutateAndIsDeterministic(t *testing.T) {
	s := threeKingdoms()
	before := s.Clone()
	a := GiveItem{Meta: Meta{Actor: DefaultActor, Intent: "给"}, Target: "liu_bei", Item: "sword_1"}

	first := Validate(s, a)
	second := Validate(s, a)
	if first == nil || second == nil || first.Error() != second.Error() {
		t.Fatalf("expected identical rejections, got %v and %v", first, second)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("validate mutated state (-before +after):\n%s", diff)
	}
}

func TestValidate_DuplicateSubmissionRejectedAfterApply(t *testing.T) {
	s := threeKingdoms()
	a := Move{Meta: Meta{Actor: DefaultActor, Intent: "前往洛阳", EventID: "arrive_luo_yang"}, ToLocation: "luo_yang"}

	next, err := Transition(s, a)
	if err != nil {
		t.Fatalf("first submission: %v", err)
	}
	if _, err := Transition(next, a); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("second submission must be rejected, got %v", err)
	}
}

func TestValidate_NilAction(t *testing.T) {
	if err := Validate(Default(), nil); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}
