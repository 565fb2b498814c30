package renderer

// boxVertexFloats is position (3) plus normal (3).
const boxVertexFloats = 6

// boxShaderSource draws instanced unit boxes. The per-instance clip matrix already contains
// the view-projection, the object transform and the box size.
const boxShaderSource = `
struct VertexIn {
	@location(0) position: vec3<f32>,
	@location(1) normal: vec3<f32>,
	@location(2) clip0: vec4<f32>,
	@location(3) clip1: vec4<f32>,
	@location(4) clip2: vec4<f32>,
	@location(5) clip3: vec4<f32>,
	@location(6) color: vec4<f32>,
}

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
	let clip = mat4x4<f32>(in.clip0, in.clip1, in.clip2, in.clip3);
	let light = normalize(vec3<f32>(0.3, 1.0, 0.5));
	let shade = 0.55 + 0.45 * max(dot(in.normal, light), 0.0);

	var out: VertexOut;
	out.position = clip * vec4<f32>(in.position, 1.0);
	out.color = vec4<f32>(in.color.rgb * shade, in.color.a);
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	return in.color;
}
`

// boxMesh builds a unit box centered on the origin with one quad per face so every face has
// its own normal.
func boxMesh() ([]float32, []uint32) {
	normals := [6][3]float32{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]float32, 0, 6*4*boxVertexFloats)
	indices := make([]uint32, 0, 6*6)
	for _, n := range normals {
		u := [3]float32{n[1], n[2], n[0]}
		v := [3]float32{n[2], n[0], n[1]}
		base := uint32(len(vertices) / boxVertexFloats)
		for _, c := range corners {
			for i := range 3 {
				vertices = append(vertices, 0.5*(n[i]+c[0]*u[i]+c[1]*v[i]))
			}
			vertices = append(vertices, n[:]...)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
