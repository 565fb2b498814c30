package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/eriks112/Snake3D/common"
)

// initialInstanceCapacity is the number of boxes the instance buffer holds before it first grows.
const initialInstanceCapacity = 1024

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	alphaMode        wgpu.CompositeAlphaMode
	configured       bool
	msaaTextureView  *wgpu.TextureView
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	pipeline         *wgpu.RenderPipeline
	vertexBuffer     *wgpu.Buffer
	indexBuffer      *wgpu.Buffer
	indexCount       uint32
	instanceBuffer   *wgpu.Buffer
	instanceCapacity int
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, mode PresentMode, sampleCount MSAASampleCount, clear [4]float64) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: clear[0], G: clear[1], B: clear[2], A: clear[3]},
	}
	if mode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return nil, errors.New("surface is not compatible with the adapter")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	if err := b.createPipeline(); err != nil {
		return nil, err
	}
	if err := b.createMeshBuffers(); err != nil {
		return nil, err
	}
	if err := b.ensureInstanceCapacity(initialInstanceCapacity); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) createPipeline() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "box shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: boxShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "box",
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	instanceAttributes := make([]wgpu.VertexAttribute, 0, 5)
	for i := range 5 {
		instanceAttributes = append(instanceAttributes, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(2 + i),
		})
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "box Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: boxVertexFloats * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: InstanceFloats * 4,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes:  instanceAttributes,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	b.pipeline = created
	return nil
}

func (b *wgpuRendererBackendImpl) createMeshBuffers() error {
	vertices, indices := boxMesh()

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "box Vertex Buffer",
		Size:  uint64(len(vertices) * 4),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	b.queue.WriteBuffer(vb, 0, common.SliceToBytes(vertices))

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "box Index Buffer",
		Size:  uint64(len(indices) * 4),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create index buffer: %w", err)
	}
	b.queue.WriteBuffer(ib, 0, common.SliceToBytes(indices))

	b.vertexBuffer = vb
	b.indexBuffer = ib
	b.indexCount = uint32(len(indices))
	return nil
}

// ensureInstanceCapacity grows the instance buffer to hold at least count boxes.
func (b *wgpuRendererBackendImpl) ensureInstanceCapacity(count int) error {
	if count <= b.instanceCapacity {
		return nil
	}
	capacity := max(count, 2*b.instanceCapacity)
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "box Instance Buffer",
		Size:  uint64(capacity * InstanceFloats * 4),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create instance buffer: %w", err)
	}
	if b.instanceBuffer != nil {
		b.instanceBuffer.Release()
	}
	b.instanceBuffer = buf
	b.instanceCapacity = capacity
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}

	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		// the pass draws into the MSAA texture and resolves into the swapchain view
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return
		}
		if b.msaaTextureView, err = msaaTexture.CreateView(nil); err != nil {
			return
		}
	}

	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return
	}
	if b.depthTextureView, err = depthTexture.CreateView(nil); err != nil {
		return
	}
	b.configured = true
}

func (b *wgpuRendererBackendImpl) DrawInstances(instances []float32, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return nil
	}
	if err := b.ensureInstanceCapacity(count); err != nil {
		return err
	}
	if count > 0 {
		b.queue.WriteBuffer(b.instanceBuffer, 0, common.SliceToBytes(instances[:count*InstanceFloats]))
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	color := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clearColor,
	}
	if b.msaaTextureView != nil {
		color.View = b.msaaTextureView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	if count > 0 {
		pass.SetPipeline(b.pipeline)
		pass.SetVertexBuffer(0, b.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, b.instanceBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(b.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(b.indexCount, uint32(count), 0, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish commands: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, buf := range []*wgpu.Buffer{b.instanceBuffer, b.vertexBuffer, b.indexBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	b.instanceBuffer, b.vertexBuffer, b.indexBuffer = nil, nil, nil
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	b.configured = false
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}
