package session

import (
	"context"
	"fmt"

	"courierquest/internal/app/ports"
	"courierquest/internal/domain/courier"
)

// Apply dispatches one player command. Rejections come back as an
// unapplied Result with a user-facing message and leave state alone;
// an error means the command itself was malformed or the session is
// not ready.
func (s *Simulation) Apply(ctx context.Context, cmd Command) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return Result{}, ErrNotInitialized
	}

	var res Result
	var err error
	switch cmd.Type {
	case CmdMove:
		res, err = s.move(cmd.Direction)
	case CmdInteract:
		res, err = s.interact()
	case CmdAccept:
		res, err = s.accept(cmd.OrderID)
	case CmdDeliver:
		res, err = s.deliver(cmd.OrderID)
	case CmdSort:
		res, err = s.sortOrders(cmd.SortMode)
	case CmdSave:
		res, err = s.save(ctx, cmd.Slot)
	case CmdLoad:
		res, err = s.load(ctx, cmd.Slot)
	case CmdUndo:
		res, err = s.undo()
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		return Result{}, err
	}

	if s.Metrics != nil {
		if res.Applied {
			s.Metrics.RecordApplied(string(cmd.Type))
		} else {
			s.Metrics.RecordRejected(string(cmd.Type))
		}
	}
	if res.Message != "" {
		s.pushNotice(res.Message)
	}
	return res, nil
}

func reject(msg string) Result {
	return Result{Applied: false, Message: msg}
}

func applied(msg string) Result {
	return Result{Applied: true, Message: msg}
}

var directionDeltas = map[Direction]courier.Position{
	DirUp:    {X: 0, Y: -1},
	DirDown:  {X: 0, Y: 1},
	DirLeft:  {X: -1, Y: 0},
	DirRight: {X: 1, Y: 0},
}

func (s *Simulation) move(dir Direction) (Result, error) {
	if s.gameOver {
		return reject("Session is over"), nil
	}
	delta, ok := directionDeltas[dir]
	if !ok {
		return Result{}, fmt.Errorf("%w: direction %q", ErrUnknownCommand, dir)
	}

	if !s.gate.CanMove(s.player.Stamina) {
		return reject("Exhausted! Wait until stamina recovers to 30"), nil
	}

	// The move cooldown stretches as computed speed drops; fast
	// conditions let commands through more often.
	speed := s.currentSpeed()
	ratio := speed / courier.BaseSpeed
	if ratio < 0.1 {
		ratio = 0.1
	}
	cooldown := courier.MoveCooldown / ratio
	if s.clock.GameTime-s.lastMoveAt < cooldown {
		return reject(""), nil
	}

	target := courier.Position{X: s.player.Position.X + delta.X, Y: s.player.Position.Y + delta.Y}
	if !s.cityMap.InBounds(target) {
		return reject("Edge of the city"), nil
	}
	if !s.cityMap.Walkable(target) {
		return reject("That way is blocked"), nil
	}

	// The flat weather add-on follows the outgoing condition until the
	// transition completes.
	cost := courier.MoveCost(courier.MoveInputs{
		Stamina:          s.player.Stamina,
		CarriedWeight:    courier.TotalWeight(s.inventory),
		WeatherCondition: string(s.weather.Current),
		SurfaceWeight:    s.cityMap.SurfaceWeight(s.player.Position),
	})
	if s.player.Stamina < cost {
		return reject("Not enough stamina to move"), nil
	}

	// Position and stamina change together or not at all.
	s.player.Position = target
	s.player.Stamina = courier.ClampStamina(s.player.Stamina - cost)
	s.gate.Observe(s.player.Stamina)
	s.lastMoveAt = s.clock.GameTime

	if !s.gate.CanMove(s.player.Stamina) {
		return applied("Exhausted! You cannot move until stamina reaches 30"), nil
	}
	return Result{Applied: true}, nil
}

func (s *Simulation) interact() (Result, error) {
	if s.gameOver {
		return reject("Session is over"), nil
	}
	now := s.clock.GameTime

	for _, o := range s.sched.Active().Items() {
		if o.Pickup != s.player.Position || !o.Claimable() {
			continue
		}
		if o.TimeRemaining(now) <= 0 {
			return reject(fmt.Sprintf("%s has expired", o.ID)), nil
		}
		return s.pickUp(o)
	}

	for _, o := range s.inventory {
		if o.Dropoff == s.player.Position && o.Status == courier.StatusPickedUp {
			if o.TimeRemaining(now) <= 0 {
				return reject(fmt.Sprintf("%s expired while you carried it", o.ID)), nil
			}
			return s.deliverOrder(o)
		}
	}

	return reject(s.nearbyHint(now)), nil
}

func (s *Simulation) pickUp(o courier.Order) (Result, error) {
	carried := courier.TotalWeight(s.inventory)
	if carried+o.Weight > s.player.MaxWeight {
		return reject(fmt.Sprintf("No capacity for %s (needs %d, %d free)",
			o.ID, o.Weight, s.player.MaxWeight-carried)), nil
	}

	now := s.clock.GameTime
	if o.Status == courier.StatusAvailable {
		if err := o.TransitionTo(courier.StatusAccepted); err != nil {
			return Result{}, err
		}
		o.AcceptedAt = now
	}
	if err := o.TransitionTo(courier.StatusPickedUp); err != nil {
		return Result{}, err
	}

	s.sched.Active().Remove(o.ID)
	s.inventory = append(s.inventory, o)
	return applied(fmt.Sprintf("Picked up %s, deliver to (%d,%d)", o.ID, o.Dropoff.X, o.Dropoff.Y)), nil
}

// nearbyHint points at the closest actionable order within 3 tiles.
func (s *Simulation) nearbyHint(now float64) string {
	const hintRadius = 3
	bestDist := hintRadius + 1
	hint := ""

	for _, o := range s.sched.Active().Items() {
		if !o.Claimable() || o.TimeRemaining(now) <= 0 {
			continue
		}
		if d := courier.ManhattanDistance(o.Pickup, s.player.Position); d < bestDist {
			bestDist = d
			hint = fmt.Sprintf("%s pickup is %d tiles away at (%d,%d)", o.ID, d, o.Pickup.X, o.Pickup.Y)
		}
	}
	for _, o := range s.inventory {
		if o.Status != courier.StatusPickedUp || o.TimeRemaining(now) <= 0 {
			continue
		}
		if d := courier.ManhattanDistance(o.Dropoff, s.player.Position); d < bestDist {
			bestDist = d
			hint = fmt.Sprintf("%s dropoff is %d tiles away at (%d,%d)", o.ID, d, o.Dropoff.X, o.Dropoff.Y)
		}
	}
	if hint == "" {
		return "Nothing to interact with here"
	}
	return hint
}

func (s *Simulation) accept(orderID string) (Result, error) {
	if s.gameOver {
		return reject("Session is over"), nil
	}
	o, ok := s.sched.Active().Get(orderID)
	if !ok {
		return reject(fmt.Sprintf("Order %s is not available", orderID)), nil
	}
	now := s.clock.GameTime
	if o.Status != courier.StatusAvailable {
		return reject(fmt.Sprintf("%s is already claimed", o.ID)), nil
	}
	if o.TimeRemaining(now) <= 0 {
		return reject(fmt.Sprintf("%s has expired", o.ID)), nil
	}
	carried := courier.TotalWeight(s.inventory)
	if carried+o.Weight > s.player.MaxWeight {
		return reject(fmt.Sprintf("Not enough capacity: %d free, %d needed",
			s.player.MaxWeight-carried, o.Weight)), nil
	}

	if err := o.TransitionTo(courier.StatusAccepted); err != nil {
		return Result{}, err
	}
	o.AcceptedAt = now
	s.sched.Active().Update(o)
	return applied(fmt.Sprintf("Accepted %s, pick up at (%d,%d)", o.ID, o.Pickup.X, o.Pickup.Y)), nil
}

func (s *Simulation) deliver(orderID string) (Result, error) {
	if s.gameOver {
		return reject("Session is over"), nil
	}
	for _, o := range s.inventory {
		if orderID != "" && o.ID != orderID {
			continue
		}
		if o.Status != courier.StatusPickedUp {
			continue
		}
		if o.Dropoff != s.player.Position {
			d := courier.ManhattanDistance(o.Dropoff, s.player.Position)
			return reject(fmt.Sprintf("%s drops at (%d,%d), %d tiles away", o.ID, o.Dropoff.X, o.Dropoff.Y, d)), nil
		}
		return s.deliverOrder(o)
	}
	return reject("No matching order in inventory"), nil
}

func (s *Simulation) deliverOrder(o courier.Order) (Result, error) {
	outcome := s.keeper.ApplyDelivery(s.player.Reputation, o, s.clock.GameTime)
	s.player.Reputation = outcome.Reputation
	s.player.Money += outcome.Payout

	if err := o.TransitionTo(courier.StatusDelivered); err != nil {
		return Result{}, err
	}
	s.removeFromInventory(o.ID)
	s.completed = append(s.completed, o)

	msg := fmt.Sprintf("Delivered %s (%s) +$%d, reputation %d", o.ID, outcome.Tier, outcome.Payout, outcome.Reputation)
	if outcome.StreakBonus {
		msg += " (streak of 3, +2 bonus)"
	}
	if outcome.LenienceApplied {
		msg += " (penalty halved)"
	}
	return applied(msg), nil
}

func (s *Simulation) removeFromInventory(id string) {
	for i, o := range s.inventory {
		if o.ID == id {
			s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
			return
		}
	}
}

func (s *Simulation) sortOrders(mode string) (Result, error) {
	switch mode {
	case SortModePriority:
		s.inventory = courier.SortByPriority(s.inventory)
		return applied("Inventory sorted by priority"), nil
	case SortModeDeadline:
		s.inventory = courier.SortByDeadline(s.inventory, s.clock.GameTime)
		return applied("Inventory sorted by deadline"), nil
	case SortModeDistance:
		q := s.sched.Active()
		q.SetItems(courier.SortByDistance(q.Items(), s.player.Position))
		return applied("Orders sorted by distance"), nil
	default:
		return Result{}, fmt.Errorf("%w: sort mode %q", ErrUnknownCommand, mode)
	}
}

func (s *Simulation) save(ctx context.Context, slot int) (Result, error) {
	st := s.composeState()
	rec := ports.SaveRecord{
		SchemaVersion: ports.SaveSchemaVersion,
		Timestamp:     s.Now(),
		State:         st,
		Metadata: ports.SaveMetadata{
			SavedAt:           s.Now(),
			GameTime:          st.Clock.GameTime,
			CompletionPercent: st.CompletionPercent(),
			City:              fmt.Sprintf("%s (%dx%d)", st.Map.Name, st.Map.Width, st.Map.Height),
		},
	}
	if err := s.Saves.Save(ctx, slot, rec); err != nil {
		return reject(fmt.Sprintf("Could not save slot %d", slot)), nil
	}
	return applied(fmt.Sprintf("Saved to slot %d", slot)), nil
}

func (s *Simulation) load(ctx context.Context, slot int) (Result, error) {
	rec, ok := s.Saves.Load(ctx, slot)
	if !ok {
		return reject(fmt.Sprintf("No usable save in slot %d", slot)), nil
	}
	s.applyState(rec.State)
	return applied(fmt.Sprintf("Loaded slot %d: %s", slot, rec.Metadata.City)), nil
}

// undo pops the most recent history diff. Only position, stamina,
// money and reputation are restored precisely; see the history
// package for the documented approximation.
func (s *Simulation) undo() (Result, error) {
	restored, ok := s.hist.Pop()
	if !ok {
		return reject("Nothing to undo"), nil
	}
	s.player.Position = restored.Player.Position
	s.player.Stamina = restored.Player.Stamina
	s.player.Reputation = restored.Player.Reputation
	s.player.Money = restored.Player.Money
	s.keeper.Streak = restored.Scores.Streak
	s.gate.Observe(s.player.Stamina)
	return applied(fmt.Sprintf("State restored (%d undos left)", s.hist.Len())), nil
}
