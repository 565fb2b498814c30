package scene

import (
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/camera"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/rs/zerolog"
)

// FrameObject is the render snapshot of one registered object.
type FrameObject struct {
	ID        uint64
	Name      string
	Kind      game_object.Kind
	Visible   bool
	ModelPath string
	Matrix    [16]float32
}

// Frame is everything a renderer needs to draw one frame. It shares no memory with the scene
// and can be handed to another goroutine.
type Frame struct {
	// Objects are ordered by ID.
	Objects []FrameObject

	View           [16]float32
	Projection     [16]float32
	ViewProjection [16]float32
	CameraPosition [3]float32
}

// Visible returns the objects of the frame that should be drawn.
//
// Returns:
//   - []FrameObject: the visible objects in ID order
func (f Frame) Visible() []FrameObject {
	out := make([]FrameObject, 0, len(f.Objects))
	for _, obj := range f.Objects {
		if obj.Visible {
			out = append(out, obj)
		}
	}
	return out
}

// Scene manages a registry of GameObjects keyed by ID, an optional Camera, and the
// per-frame work that turns the registry into a Frame for rendering.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera, nil if none is attached.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera, nil to detach
	SetCamera(cam camera.Camera)

	// Count returns the number of GameObjects in the scene's registry.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add registers a GameObject. Objects without an ID are assigned the next free one.
	// Adding an object whose ID is already registered replaces the previous object.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object's ID, 0 if obj is nil
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - bool: false if no object had the ID
	Remove(id uint64) bool

	// Objects returns the registered objects ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: a new slice of the registered objects
	Objects() []game_object.GameObject

	// Clear removes all objects from the scene.
	Clear()

	// UpdateParentTracking moves every tracking child onto its parent: the position becomes the
	// parent's position plus the offset along the parent's forward, up and right axes, and the
	// rotation becomes the parent's rotation plus the rotation offset. Parents are updated
	// before their children. The camera node is included even if it is not registered.
	UpdateParentTracking()

	// Bake updates the camera and computes the world matrix of every registered object on the
	// compute worker pool. Nodes are only read while the workers run, so the caller must not
	// mutate them until Bake returns.
	//
	// Returns:
	//   - Frame: the render snapshot
	Bake() Frame

	// Close stops the compute workers. The scene must not be baked afterwards.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	cam    camera.Camera

	registry map[uint64]game_object.GameObject
	nextID   uint64

	// computePool manages a bounded set of reusable goroutines for Bake.
	// Workers persist across frames, avoiding per-frame goroutine spawn/teardown overhead.
	computePool    worker.DynamicWorkerPool
	computeWorkers int

	log zerolog.Logger
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new, inactive Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		registry:       make(map[uint64]game_object.GameObject),
		nextID:         1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
		log:            zerolog.Nop(),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	s.log.Debug().Str("scene", s.name).Int("workers", s.computeWorkers).Msg("scene created")
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

// addLocked registers obj. Caller must hold the write lock.
func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
	}
	id := obj.ID()
	if id >= s.nextID {
		s.nextID = id + 1
	}
	s.registry[id] = obj
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registry[id]; !exists {
		return false
	}
	delete(s.registry, id)
	return true
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objectsLocked()
}

// objectsLocked returns the registry ordered by ID. Caller must hold the lock.
func (s *scene) objectsLocked() []game_object.GameObject {
	ids := slices.Sorted(maps.Keys(s.registry))
	objects := make([]game_object.GameObject, len(ids))
	for i, id := range ids {
		objects[i] = s.registry[id]
	}
	return objects
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
}

func (s *scene) UpdateParentTracking() {
	s.mu.RLock()
	objects := s.objectsLocked()
	if s.cam != nil {
		objects = append(objects, s.cam.Node())
	}
	s.mu.RUnlock()

	visited := make(map[game_object.GameObject]bool, len(objects))
	var visit func(obj game_object.GameObject)
	visit = func(obj game_object.GameObject) {
		if visited[obj] {
			return
		}
		visited[obj] = true

		parent := obj.Parent()
		if parent == nil || !obj.ParentTracking() {
			return
		}
		visit(parent)
		track(obj, parent)
	}

	for _, obj := range objects {
		visit(obj)
	}
}

// track places child relative to parent using the child's tracking offsets.
func track(child, parent game_object.GameObject) {
	off := child.ParentOffset()
	pos := parent.Position()
	pos = common.Add3(pos, common.Scale3(parent.ForwardVector(false), off[0]))
	pos = common.Add3(pos, common.Scale3(parent.UpVector(), off[1]))
	pos = common.Add3(pos, common.Scale3(parent.RightVector(false), off[2]))

	child.SetPosition(pos)
	child.SetRotation(common.Add3(parent.Rotation(), child.ParentRotationOffset()))
}

func (s *scene) Bake() Frame {
	s.mu.RLock()
	objects := s.objectsLocked()
	cam := s.cam
	s.mu.RUnlock()

	var frame Frame
	if cam != nil {
		cam.Update()
		frame.View = cam.ViewMatrix()
		frame.Projection = cam.ProjectionMatrix()
		frame.ViewProjection = cam.ViewProjectionMatrix()
		frame.CameraPosition = cam.Node().Position()
	}

	frame.Objects = make([]FrameObject, len(objects))
	if len(objects) == 0 {
		return frame
	}

	// Split the objects into one contiguous batch per worker. Each task writes only its own
	// window of frame.Objects. A WaitGroup provides the per-frame barrier since pool.Wait()
	// is meant for draining the pool, not for frame-rate workloads.
	batch := (len(objects) + s.computeWorkers - 1) / s.computeWorkers
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(objects); start += batch {
		end := min(start+batch, len(objects))
		in, out := objects[start:end], frame.Objects[start:end]

		wg.Add(1)
		id := taskID
		taskID++
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i, obj := range in {
					out[i] = FrameObject{
						ID:        obj.ID(),
						Name:      obj.Name(),
						Kind:      obj.Kind(),
						Visible:   obj.Visible(),
						ModelPath: obj.ModelPath(),
						Matrix:    obj.ComputeWorldMatrix(),
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return frame
}

func (s *scene) Close() {
	s.computePool.Stop()
	s.log.Debug().Str("scene", s.Name()).Msg("scene closed")
}
