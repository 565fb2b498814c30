package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine"
	"github.com/eriks112/Snake3D/engine/animation"
	"github.com/eriks112/Snake3D/engine/camera"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/eriks112/Snake3D/engine/input"
	"github.com/eriks112/Snake3D/engine/renderer"
	"github.com/eriks112/Snake3D/engine/scene"
	"github.com/eriks112/Snake3D/engine/snake"
	"github.com/eriks112/Snake3D/engine/window"
	"github.com/eriks112/Snake3D/internal/config"
	"github.com/eriks112/Snake3D/internal/logging"
	"github.com/eriks112/Snake3D/internal/scoreboard"
	"github.com/rs/zerolog"
)

// Placeholder looks for the game's model paths.
var modelStyles = map[string]renderer.Style{
	snake.HeadModel:     {Color: [4]float32{0.2, 0.8, 0.3, 1}, Size: [3]float32{50, 40, 50}},
	snake.BodyModel:     {Color: [4]float32{0.3, 0.65, 0.3, 1}, Size: [3]float32{45, 35, 45}},
	snake.TailModel:     {Color: [4]float32{0.35, 0.55, 0.3, 1}, Size: [3]float32{35, 30, 35}},
	snake.PickupModel:   {Color: [4]float32{0.95, 0.85, 0.2, 1}, Size: [3]float32{25, 25, 25}},
	snake.WindmillModel: {Color: [4]float32{0.6, 0.45, 0.3, 1}, Size: [3]float32{20, 300, 20}},
}

// maskedInput hides the keyboard from the game while the free camera owns it.
type maskedInput struct {
	keys   input.KeyState
	masked atomic.Bool
}

func (m *maskedInput) Pressed(key uint32) bool {
	if m.masked.Load() {
		return false
	}
	return m.keys.Pressed(key)
}

// edges turns held keys into one-shot presses.
type edges map[uint32]bool

func (e edges) pressed(keys input.KeyState, key uint32) bool {
	down := keys.Pressed(key)
	was := e[key]
	e[key] = down
	return down && !was
}

// session wires the game to the engine, the window and the renderer.
type session struct {
	settings config.Settings
	opts     options
	board    scoreboard.Board
	log      zerolog.Logger

	eng        engine.Engine
	win        window.Window
	rend       renderer.Renderer
	mainScene  scene.Scene
	cam        camera.Camera
	controller camera.CameraController
	scheduler  animation.Scheduler
	keys       input.KeyState
	gameInput  *maskedInput
	game       snake.Game
	rig        game_object.GameObject

	edges    edges
	ticks    int
	playedMs float64
	recorded bool
	score    atomic.Int64
	shown    int64
}

func newSession(settings config.Settings, opts options, board scoreboard.Board, log zerolog.Logger) (*session, error) {
	s := &session{
		settings: settings,
		opts:     opts,
		board:    board,
		log:      logging.Component(log, "session"),
		edges:    edges{},
		shown:    -1,
	}

	s.scheduler = animation.NewScheduler(
		animation.WithTickRate(settings.Animation.TickRate),
		animation.WithStrictOrdering(settings.Animation.StrictOrdering),
		animation.WithLogger(logging.Component(log, "animation")),
	)
	s.keys = input.NewKeyState()
	s.gameInput = &maskedInput{keys: s.keys}

	sceneOptions := []scene.SceneBuilderOption{
		scene.WithActive(true),
		scene.WithLogger(logging.Component(log, "scene")),
	}
	if settings.Engine.ComputeWorkers > 0 {
		sceneOptions = append(sceneOptions, scene.WithComputeWorkers(settings.Engine.ComputeWorkers))
	}
	s.mainScene = scene.NewScene("main", sceneOptions...)

	s.cam = camera.NewCamera(camera.WithAspect(float32(settings.Window.Width) / float32(settings.Window.Height)))
	s.mainScene.SetCamera(s.cam)

	light := game_object.NewGameObject(
		game_object.WithName("light"),
		game_object.WithKind(game_object.KindLight),
		game_object.WithVisible(false),
		game_object.WithPosition(0, 1000, 0),
	)
	s.mainScene.Add(light)
	s.controller = camera.NewCameraController(s.cam,
		camera.WithLight(light),
		camera.WithEnabled(settings.Game.DebugCamera),
	)

	rendererOptions := []renderer.RendererBuilderOption{
		renderer.WithLogger(logging.Component(log, "renderer")),
	}
	for path, style := range modelStyles {
		rendererOptions = append(rendererOptions, renderer.WithStyle(path, style))
	}

	if !opts.headless {
		w, err := window.NewWindow(
			window.WithTitle(settings.Window.Title),
			window.WithWidth(settings.Window.Width),
			window.WithHeight(settings.Window.Height),
		)
		if err != nil {
			s.close()
			return nil, err
		}
		s.win = w
		s.keys.Bind(w)
		w.SetFocusLostCallback(s.keys.Reset)
		rendererOptions = append(rendererOptions, renderer.WithSurface(w.SurfaceDescriptor(), w.Width(), w.Height()))
	}

	rend, err := renderer.NewRenderer(rendererOptions...)
	if err != nil {
		s.close()
		return nil, err
	}
	s.rend = rend

	mode, ok := snake.ParseMode(settings.Game.Mode)
	if !ok {
		s.close()
		return nil, fmt.Errorf("unknown game mode %q", settings.Game.Mode)
	}
	gameOptions := []snake.GameBuilderOption{
		snake.WithMode(mode),
		snake.WithSpeed(settings.Game.Speed),
		snake.WithSpeedIncrement(settings.Game.SpeedIncrement),
		snake.WithSpacing(settings.Game.Spacing),
		snake.WithHeadY(settings.Game.HeadY),
		snake.WithScheduler(s.scheduler),
		snake.WithInput(s.gameInput),
		snake.WithModelLoader(s.rend),
		snake.WithRegistry(s.mainScene),
		snake.WithLogger(logging.Component(log, "snake")),
	}
	if settings.Game.Seed != 0 {
		gameOptions = append(gameOptions, snake.WithSeed(settings.Game.Seed))
	}
	s.game = snake.NewGame(gameOptions...)
	if err := s.game.Load(); err != nil {
		s.close()
		return nil, err
	}
	if settings.Game.ThirdPerson {
		s.setThirdPerson(true)
	}

	engineOptions := []engine.EngineBuilderOption{
		engine.WithTickRate(settings.Engine.TickRate),
		engine.WithRenderFrameLimit(settings.Engine.RenderLimit),
		engine.WithProfiling(settings.Engine.Profiling),
		engine.WithScene(0, s.mainScene),
		engine.WithLogger(logging.Component(log, "engine")),
	}
	if s.win != nil {
		engineOptions = append(engineOptions, engine.WithWindow(s.win))
	}
	s.eng = engine.NewEngine(engineOptions...)
	s.eng.SetResizeCallback(s.rend.Resize)
	s.eng.SetTickCallback(s.tick)
	s.eng.SetRenderCallback(s.render)

	if s.win != nil {
		s.win.SetUpdateCallback(s.updateTitle)
	} else {
		s.game.Start()
	}

	return s, nil
}

func (s *session) run() {
	s.log.Info().
		Str("mode", s.settings.Game.Mode).
		Bool("headless", s.win == nil).
		Msg("game loaded, press Enter to start")
	s.eng.Run()

	snap := s.game.Snapshot()
	s.log.Info().Int("score", snap.Score).Int("segments", snap.Segments).Bool("over", snap.Status.Over).Msg("session ended")
}

// tick runs on the engine goroutine before the scene is baked.
func (s *session) tick(dt float32) {
	s.ticks++

	if s.edges.pressed(s.keys, common.KeyEsc) {
		s.eng.Quit()
		return
	}
	if s.edges.pressed(s.keys, common.KeyG) {
		s.controller.SetEnabled(!s.controller.Enabled())
		s.log.Debug().Bool("enabled", s.controller.Enabled()).Msg("debug camera toggled")
	}
	if s.edges.pressed(s.keys, common.KeyT) {
		s.setThirdPerson(!s.cam.ThirdPerson())
	}

	s.controller.Look(s.keys.TakeMouseDelta())
	s.gameInput.masked.Store(s.controller.Update(s.keys, dt))

	s.game.Update(dt)
	s.scheduler.Update()

	status := s.game.Status()
	if status.Started && !status.Over {
		s.playedMs += float64(dt)
	}
	snap := s.game.Snapshot()
	s.score.Store(int64(snap.Score))

	if status.Over && !s.recorded {
		s.recorded = true
		s.recordResult(snap)
		if s.win == nil {
			s.eng.Quit()
		}
	}
	if s.win == nil && s.opts.ticks > 0 && s.ticks >= s.opts.ticks {
		s.eng.Quit()
	}
}

func (s *session) render(_ float32, frames []scene.Frame) {
	if err := s.rend.Render(frames); err != nil {
		s.log.Warn().Err(err).Msg("render failed")
	}
}

// updateTitle runs on the main thread, where the window may be changed.
func (s *session) updateTitle() {
	score := s.score.Load()
	if score == s.shown {
		return
	}
	s.shown = score
	s.win.SetTitle(fmt.Sprintf("%s - Score %d", s.settings.Window.Title, score))
}

func (s *session) setThirdPerson(enabled bool) {
	if enabled {
		if s.rig == nil {
			s.rig = camera.NewThirdPersonRig(s.game.Character())
			s.mainScene.Add(s.rig)
		}
		s.cam.EnableThirdPerson(s.rig)
	} else {
		s.cam.DisableThirdPerson()
	}
	s.game.SetThirdPerson(enabled)
	s.log.Debug().Bool("enabled", enabled).Msg("third person toggled")
}

func (s *session) recordResult(snap snake.Snapshot) {
	s.log.Info().Int("score", snap.Score).Int("segments", snap.Segments).Msg("game over")
	if s.board == nil {
		return
	}
	res, err := s.board.Record(context.Background(), scoreboard.Result{
		Score:      snap.Score,
		Segments:   snap.Segments,
		DurationMs: int64(s.playedMs),
		Mode:       snap.Mode,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to record result")
		return
	}
	best, err := s.board.Best(context.Background())
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read best score")
		return
	}
	s.log.Info().Uint("id", res.ID).Int("best", best).Msg("result recorded")
}

func (s *session) close() {
	if s.mainScene != nil {
		s.mainScene.Close()
	}
	if s.rend != nil {
		s.rend.Release()
	}
	if s.win != nil {
		if err := s.win.Close(); err != nil {
			s.log.Warn().Err(err).Msg("failed to close window")
		}
	}
}
