package snake

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/animation"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/rs/zerolog"
)

const (
	// DefaultSpeed is the head's starting speed in hundredths of a unit per millisecond.
	DefaultSpeed float32 = 20

	// DefaultSpeedIncrement is added to the head speed for every segment grown after the first.
	DefaultSpeedIncrement float32 = 0.2

	// DefaultSpacing is the distance between two consecutive chain links.
	DefaultSpacing float32 = 73

	// DefaultHeadY is the height the head moves at.
	DefaultHeadY float32 = 36

	// ArenaBound is the absolute x/z coordinate past which the game is over.
	ArenaBound float32 = 980

	// PickupRadius is the per-axis XZ distance at which the head collects a pickup.
	PickupRadius float32 = 40

	// TurnAnimationSpeed is the speed of the third-person quarter turn.
	TurnAnimationSpeed float32 = 12

	// steerRate divides the head speed into the path-mode steering rate in radians per millisecond.
	steerRate = 8000

	pickupRows    = 23
	pickupColumns = 24

	minSpawnMillis   = 4500
	spawnJitterMilli = 6000
)

// Model paths handed to the ModelLoader.
const (
	HeadModel     = "Data/Objects/Snake2/Snake_Head.fbx"
	BodyModel     = "Data/Objects/Snake2/Snake_Middle.fbx"
	TailModel     = "Data/Objects/Snake2/Snake_Tail.fbx"
	PickupModel   = "Data/Objects/cheese.fbx"
	WindmillModel = "Data/Objects/Windmill/windmill_blades.fbx"
)

// Input answers keyboard queries for the current tick.
type Input interface {
	// Pressed reports whether the key is held down.
	//
	// Parameters:
	//   - key: a key code from the common package
	//
	// Returns:
	//   - bool: true while the key is held
	Pressed(key uint32) bool
}

// ModelLoader prepares the asset behind a model path before nodes using it are created.
type ModelLoader interface {
	// LoadModel loads or validates the model at path.
	//
	// Parameters:
	//   - path: the opaque asset path
	//
	// Returns:
	//   - error: non-nil if the model cannot be used
	LoadModel(path string) error
}

// Registry receives every node the game creates so it can be baked and drawn.
type Registry interface {
	// Add registers a node and returns its assigned ID.
	//
	// Parameters:
	//   - obj: the node to register
	//
	// Returns:
	//   - uint64: the node ID
	Add(obj game_object.GameObject) uint64
}

// GameStatus is the coarse state of the game for the loop and the overlay.
type GameStatus struct {
	CharacterLoaded bool
	Started         bool
	Over            bool
}

// Snapshot is a copy of the game values shown by the overlay and reported by replays.
type Snapshot struct {
	Mode         string
	Score        int
	Speed        float32
	Segments     int
	TrailLength  int
	HeadPosition [3]float32
	HeadRotation [3]float32
	Status       GameStatus
}

// heading is the absolute direction of the head in turn mode.
type heading int

const (
	headingUp heading = iota
	headingDown
	headingLeft
	headingRight
)

type game struct {
	mode           Mode
	speed          float32
	speedIncrement float32
	spacing        float32
	headY          float32
	thirdPerson    bool

	scheduler animation.Scheduler
	input     Input
	loader    ModelLoader
	registry  Registry
	rng       *rand.Rand
	log       zerolog.Logger

	chain    []*Link
	trail    *Trail
	pickups  []game_object.GameObject
	windmill game_object.GameObject

	heading     heading
	score       int
	spawnTimer  float32
	nextSpawnAt float32
	status      GameStatus
}

// Game is the snake game: a head steered by the player, a chain of segments following it,
// pickups that grow the chain, and the game-over rules.
//
// Update must be called from a single goroutine once per frame with the elapsed time. The
// animation scheduler the game queues rotations on is advanced by the caller.
type Game interface {
	// Load creates the head, the first tail segment, the pickup grid and the scenery.
	// Each model path is passed to the ModelLoader once.
	//
	// Returns:
	//   - error: if a model fails to load or the game is already loaded
	Load() error

	// Update advances the game by dt milliseconds. It does nothing until Enter has been
	// pressed and after the game is over.
	//
	// Parameters:
	//   - dt: elapsed time in milliseconds
	Update(dt float32)

	// CreateSnakeChild appends a tail segment one spacing behind the current last link,
	// with the same rotation. The previous tail becomes a body segment and the head speed
	// rises by the speed increment. The first segment does not change the speed.
	//
	// Returns:
	//   - bool: false if the head has not been loaded
	CreateSnakeChild() bool

	// Character returns the head node, or nil before Load.
	//
	// Returns:
	//   - game_object.GameObject: the head
	Character() game_object.GameObject

	// Segments returns the follower links in chain order, head excluded.
	//
	// Returns:
	//   - []*Link: the segments
	Segments() []*Link

	// Head returns the head's link, or nil before Load.
	//
	// Returns:
	//   - *Link: the head link
	Head() *Link

	// Trail returns the waypoint trail used in path mode.
	//
	// Returns:
	//   - *Trail: the trail
	Trail() *Trail

	// Pickups returns the pickup grid nodes. Visible pickups can be collected.
	//
	// Returns:
	//   - []game_object.GameObject: the pickups in row-major order
	Pickups() []game_object.GameObject

	// Status returns the loaded/started/over flags.
	//
	// Returns:
	//   - GameStatus: the current status
	Status() GameStatus

	// Snapshot returns the values shown by the overlay.
	//
	// Returns:
	//   - Snapshot: a copy of the current game values
	Snapshot() Snapshot

	// Start starts the game as if Enter had been pressed.
	Start()

	// SetThirdPerson switches the turn-mode controls between absolute and relative turns.
	//
	// Parameters:
	//   - enabled: true for relative quarter turns driven by the animation scheduler
	SetThirdPerson(enabled bool)
}

var _ Game = &game{}

// NewGame creates an unloaded game. Call Load before the first Update.
//
// Parameters:
//   - options: functional options to configure the game
//
// Returns:
//   - Game: the newly created game
func NewGame(options ...GameBuilderOption) Game {
	g := &game{
		mode:           KinematicsPath,
		speed:          DefaultSpeed,
		speedIncrement: DefaultSpeedIncrement,
		spacing:        DefaultSpacing,
		headY:          DefaultHeadY,
		log:            zerolog.Nop(),
	}
	for _, option := range options {
		option(g)
	}
	if g.scheduler == nil {
		g.scheduler = animation.NewScheduler()
	}
	if g.input == nil {
		g.input = noInput{}
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g.trail = NewTrail(g.spacing)
	g.nextSpawnAt = g.nextSpawnInterval()
	return g
}

type noInput struct{}

func (noInput) Pressed(uint32) bool { return false }

func (g *game) Load() error {
	if g.status.CharacterLoaded {
		return fmt.Errorf("snake game already loaded")
	}

	if g.loader != nil {
		for _, path := range []string{HeadModel, BodyModel, TailModel, PickupModel, WindmillModel} {
			if err := g.loader.LoadModel(path); err != nil {
				return fmt.Errorf("failed to load model %s: %w", path, err)
			}
		}
	}

	head := game_object.NewGameObject(
		game_object.WithName("head"),
		game_object.WithModelPath(HeadModel),
		game_object.WithPosition(0, g.headY, 0),
	)
	g.register(head)
	g.chain = []*Link{{node: head}}

	g.createPickups()
	g.createScenery()

	g.status.CharacterLoaded = true
	g.CreateSnakeChild()

	g.log.Info().
		Str("mode", g.mode.String()).
		Float32("speed", g.speed).
		Int("pickups", len(g.pickups)).
		Msg("snake game loaded")
	return nil
}

// createPickups lays out the hidden pickup grid.
func (g *game) createPickups() {
	g.pickups = make([]game_object.GameObject, 0, pickupRows*pickupColumns)
	for i := range pickupRows {
		for j := range pickupColumns {
			p := game_object.NewGameObject(
				game_object.WithName("pickup"),
				game_object.WithModelPath(PickupModel),
				game_object.WithVisible(false),
				game_object.WithPosition(-930+80*float32(j), 5, 930-85*float32(i)),
			)
			g.register(p)
			g.pickups = append(g.pickups, p)
		}
	}
}

// createScenery adds the windmill blades and starts their endless rotation.
func (g *game) createScenery() {
	g.windmill = game_object.NewGameObject(
		game_object.WithName("windmill"),
		game_object.WithModelPath(WindmillModel),
		game_object.WithPosition(1635.4, 877.682, 1818.74),
	)
	g.register(g.windmill)

	h, ok := g.scheduler.CreateAnimation(g.windmill, animation.KindRotation, 1, [3]float32{0, 0, 2 * math.Pi}, true)
	if !ok {
		g.log.Warn().Msg("windmill animation was not created")
		return
	}
	h.Start()
}

func (g *game) register(obj game_object.GameObject) {
	if g.registry != nil {
		g.registry.Add(obj)
	}
}

func (g *game) CreateSnakeChild() bool {
	if len(g.chain) == 0 {
		return false
	}

	parent := g.chain[len(g.chain)-1]
	pos := common.Sub3(parent.node.Position(), common.Scale3(parent.node.ForwardVector(false), g.spacing))
	rot := parent.node.Rotation()

	tail := game_object.NewGameObject(
		game_object.WithName("segment"),
		game_object.WithModelPath(TailModel),
		game_object.WithParentTracking(false),
		game_object.WithPosition(pos[0], pos[1], pos[2]),
		game_object.WithRotation(rot[0], rot[1], rot[2]),
	)
	tail.SetParent(parent.node)
	g.register(tail)

	if len(g.chain) > 1 {
		parent.variant = VariantBody
		parent.node.SetModelPath(BodyModel)
		g.speed += g.speedIncrement
	}
	g.chain = append(g.chain, &Link{node: tail, variant: VariantTail})

	g.log.Debug().Int("segments", len(g.chain)-1).Float32("speed", g.speed).Msg("snake grew")
	return true
}

func (g *game) Update(dt float32) {
	if !g.status.CharacterLoaded {
		return
	}
	if !g.status.Started {
		if !g.input.Pressed(common.KeyEnter) {
			return
		}
		g.Start()
	}
	if g.status.Over {
		return
	}

	g.spawnPickups(dt)

	switch g.mode {
	case KinematicsTurn:
		g.updateTurn(dt)
	default:
		g.updatePath(dt)
	}

	g.collectPickups()
	g.checkGameOver()
}

// updatePath steers the head, moves it, samples the trail and moves the segments along it.
func (g *game) updatePath(dt float32) {
	head := g.chain[0].node

	turn := g.speed / steerRate * dt
	if g.input.Pressed(common.KeyD) {
		head.AdjustRotation([3]float32{0, turn, 0})
	}
	if g.input.Pressed(common.KeyA) {
		head.AdjustRotation([3]float32{0, -turn, 0})
	}

	head.AdjustPosition(step(head.ForwardVector(false), g.speed, dt))
	g.trail.Record(head, len(g.chain)-1)
	followPath(g.chain[1:], g.trail, g.scheduler, g.speed, dt)
}

// updateTurn moves the segments, then the head, then reads the turn input.
func (g *game) updateTurn(dt float32) {
	turned := followTurns(g.chain, g.speed, dt, g.spacing)

	headLink := g.chain[0]
	head := headLink.node
	head.AdjustPosition(step(head.ForwardVector(false), g.speed, dt))

	if turned || headLink.movePending || head.AnimationActive() {
		return
	}
	g.readTurnInput(headLink)
}

// readTurnInput applies at most one direction change to the head.
func (g *game) readTurnInput(headLink *Link) {
	head := headLink.node
	horizontal := g.heading == headingLeft || g.heading == headingRight

	if g.thirdPerson {
		var yaw float32
		switch {
		case g.input.Pressed(common.KeyD):
			yaw = math.Pi / 2
		case g.input.Pressed(common.KeyA):
			yaw = -math.Pi / 2
		default:
			return
		}
		if h, ok := g.scheduler.CreateAnimation(head, animation.KindRotation, TurnAnimationSpeed, [3]float32{0, yaw, 0}, false); ok {
			h.Start()
			headLink.movePending = true
			g.heading = headingFromYaw(head.Rotation()[1] + yaw)
		}
		return
	}

	switch {
	case !horizontal && g.input.Pressed(common.KeyD):
		g.setHeading(headLink, headingRight, math.Pi/2)
	case !horizontal && g.input.Pressed(common.KeyA):
		g.setHeading(headLink, headingLeft, -math.Pi/2)
	case horizontal && g.input.Pressed(common.KeyW):
		g.setHeading(headLink, headingUp, 0)
	case horizontal && g.input.Pressed(common.KeyS):
		g.setHeading(headLink, headingDown, math.Pi)
	}
}

// headingFromYaw rounds a yaw to the nearest absolute heading.
func headingFromYaw(yaw float32) heading {
	quarter := int(math.Round(float64(yaw) / (math.Pi / 2)))
	switch ((quarter % 4) + 4) % 4 {
	case 1:
		return headingRight
	case 2:
		return headingDown
	case 3:
		return headingLeft
	default:
		return headingUp
	}
}

func (g *game) setHeading(headLink *Link, h heading, yaw float32) {
	headLink.node.SetRotation([3]float32{0, yaw, 0})
	headLink.movePending = true
	g.heading = h
}

// spawnPickups shows a random hidden pickup each time the spawn interval elapses.
func (g *game) spawnPickups(dt float32) {
	g.spawnTimer += dt
	if g.spawnTimer <= g.nextSpawnAt {
		return
	}
	g.spawnTimer = 0
	g.nextSpawnAt = g.nextSpawnInterval()

	hidden := make([]game_object.GameObject, 0, len(g.pickups))
	for _, p := range g.pickups {
		if !p.Visible() {
			hidden = append(hidden, p)
		}
	}
	if len(hidden) == 0 {
		return
	}
	hidden[g.rng.IntN(len(hidden))].SetVisible(true)
}

func (g *game) nextSpawnInterval() float32 {
	return float32(minSpawnMillis + g.rng.IntN(spawnJitterMilli))
}

// collectPickups hides every visible pickup the head touches and grows the snake for each.
func (g *game) collectPickups() {
	headPos := g.chain[0].node.Position()
	for _, p := range g.pickups {
		if !p.Visible() || !common.NearXZ(p.Position(), headPos, PickupRadius) {
			continue
		}
		p.SetVisible(false)
		g.score++
		g.CreateSnakeChild()
		g.log.Info().Int("score", g.score).Msg("pickup collected")
	}
}

// checkGameOver ends the game when the head leaves the arena or runs into its own body.
func (g *game) checkGameOver() {
	pos := g.chain[0].node.Position()
	if abs(pos[0]) > ArenaBound || abs(pos[2]) > ArenaBound {
		g.gameOver("left the arena")
		return
	}

	for _, seg := range g.chain[1:] {
		if common.NearXZ(pos, seg.node.Position(), g.spacing/2) {
			g.gameOver("hit own body")
			return
		}
	}
}

func (g *game) gameOver(reason string) {
	g.status.Over = true
	g.scheduler.PauseAllAnimations()
	g.log.Info().Str("reason", reason).Int("score", g.score).Msg("game over")
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func (g *game) Character() game_object.GameObject {
	if len(g.chain) == 0 {
		return nil
	}
	return g.chain[0].node
}

func (g *game) Segments() []*Link {
	if len(g.chain) == 0 {
		return nil
	}
	return g.chain[1:]
}

func (g *game) Head() *Link {
	if len(g.chain) == 0 {
		return nil
	}
	return g.chain[0]
}

func (g *game) Trail() *Trail {
	return g.trail
}

func (g *game) Pickups() []game_object.GameObject {
	return g.pickups
}

func (g *game) Status() GameStatus {
	return g.status
}

func (g *game) Snapshot() Snapshot {
	s := Snapshot{
		Mode:        g.mode.String(),
		Score:       g.score,
		Speed:       g.speed,
		Segments:    len(g.Segments()),
		TrailLength: g.trail.Len(),
		Status:      g.status,
	}
	if head := g.Character(); head != nil {
		s.HeadPosition = head.Position()
		s.HeadRotation = head.Rotation()
	}
	return s
}

func (g *game) Start() {
	if !g.status.CharacterLoaded || g.status.Started {
		return
	}
	g.status.Started = true
	g.log.Info().Msg("game started")
}

func (g *game) SetThirdPerson(enabled bool) {
	g.thirdPerson = enabled
}
