package pipeline

// Built-in shader ids. The manager caches per id, so each source compiles
// once per backend.
const (
	shaderGeometry      = "builtin/geometry"
	shaderShadow        = "builtin/shadow"
	shaderPost          = "builtin/post"
	shaderGBufferPos    = "builtin/gbuffer-position"
	shaderGBufferNormal = "builtin/gbuffer-normal"
	shaderGBufferAlbedo = "builtin/gbuffer-albedo"
	shaderDeferredLight = "builtin/deferred-lighting"
)

// builtinSources picks the language by backend. The headless backend
// accepts any non-empty source, so it gets the WGSL set.
func builtinSources(backendName string) map[string]string {
	if backendName == "opengl" {
		return glslSources
	}
	return wgslSources
}

// All shaders share one uniform block layout; see objectUniforms.

const wgslUniforms = `
struct Uniforms {
    mvp : mat4x4<f32>,
    model : mat4x4<f32>,
    light_vp : mat4x4<f32>,
    camera_pos : vec4<f32>,
    light_dir : vec4<f32>,
    light_color : vec4<f32>,
    base_color : vec4<f32>,
    params : vec4<f32>,
};
@group(0) @binding(0) var<uniform> u : Uniforms;
`

var wgslSources = map[string]string{
	shaderGeometry: wgslUniforms + `
@group(0) @binding(1) var samp : sampler;
@group(0) @binding(2) var tex_albedo : texture_2d<f32>;

struct VertexOut {
    @builtin(position) position : vec4<f32>,
    @location(0) world_pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> VertexOut {
    var out : VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.world_pos = (u.model * vec4<f32>(pos, 1.0)).xyz;
    out.normal = normalize((u.model * vec4<f32>(normal, 0.0)).xyz);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in : VertexOut) -> @location(0) vec4<f32> {
    let albedo = textureSample(tex_albedo, samp, in.uv) * u.base_color;
    let n = normalize(in.normal);
    let l = normalize(-u.light_dir.xyz);
    let diffuse = max(dot(n, l), 0.0);
    let ambient = 0.15 * u.params.z;
    let lit = albedo.rgb * (ambient + diffuse) * u.light_color.rgb;
    return vec4<f32>(lit + u.params.w * albedo.rgb, albedo.a);
}
`,

	shaderShadow: wgslUniforms + `
@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> @builtin(position) vec4<f32> {
    return u.mvp * vec4<f32>(pos, 1.0);
}
`,

	shaderPost: wgslUniforms + `
@group(0) @binding(1) var samp : sampler;
@group(0) @binding(2) var tex_scene : texture_2d<f32>;

struct VertexOut {
    @builtin(position) position : vec4<f32>,
    @location(0) uv : vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> VertexOut {
    var out : VertexOut;
    out.position = vec4<f32>(pos.xy, 0.0, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in : VertexOut) -> @location(0) vec4<f32> {
    var color = textureSample(tex_scene, samp, in.uv).rgb;
    if (u.params.x > 0.5) {
        // Reinhard tone mapping for HDR scene targets
        color = color / (color + vec3<f32>(1.0));
    }
    return vec4<f32>(color, 1.0);
}
`,

	shaderGBufferPos: wgslUniforms + `
struct VertexOut {
    @builtin(position) position : vec4<f32>,
    @location(0) world_pos : vec3<f32>,
};

@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> VertexOut {
    var out : VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.world_pos = (u.model * vec4<f32>(pos, 1.0)).xyz;
    return out;
}

@fragment
fn fs_main(in : VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.world_pos, 1.0);
}
`,

	shaderGBufferNormal: wgslUniforms + `
struct VertexOut {
    @builtin(position) position : vec4<f32>,
    @location(0) normal : vec3<f32>,
};

@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> VertexOut {
    var out : VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.normal = normalize((u.model * vec4<f32>(normal, 0.0)).xyz);
    return out;
}

@fragment
fn fs_main(in : VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(normalize(in.normal), 1.0);
}
`,

	shaderGBufferAlbedo: wgslUniforms + `
@group(0) @binding(1) var samp : sampler;
@group(0) @binding(2) var tex_albedo : texture_2d<f32>;

struct VertexOut {
    @builtin(position) position : vec4<f32>,
    @location(0) uv : vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> VertexOut {
    var out : VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in : VertexOut) -> @location(0) vec4<f32> {
    return textureSample(tex_albedo, samp, in.uv) * u.base_color;
}
`,

	shaderDeferredLight: wgslUniforms + `
@group(0) @binding(1) var samp : sampler;
@group(0) @binding(2) var tex_position : texture_2d<f32>;
@group(0) @binding(3) var tex_normal : texture_2d<f32>;
@group(0) @binding(4) var tex_albedo : texture_2d<f32>;

struct VertexOut {
    @builtin(position) position : vec4<f32>,
    @location(0) uv : vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) pos : vec3<f32>,
    @location(1) normal : vec3<f32>,
    @location(2) uv : vec2<f32>,
    @location(3) tangent : vec3<f32>,
) -> VertexOut {
    var out : VertexOut;
    out.position = vec4<f32>(pos.xy, 0.0, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in : VertexOut) -> @location(0) vec4<f32> {
    let albedo = textureSample(tex_albedo, samp, in.uv);
    let n = normalize(textureSample(tex_normal, samp, in.uv).xyz);
    let l = normalize(-u.light_dir.xyz);
    let diffuse = max(dot(n, l), 0.0);
    let lit = albedo.rgb * (0.15 + diffuse) * u.light_color.rgb;
    return vec4<f32>(lit, 1.0);
}
`,
}

// GLSL counterparts. One source per shader; the backend compiles it twice
// with VERTEX_SHADER / FRAGMENT_SHADER defined.

const glslUniforms = `
layout(std140) uniform Uniforms {
    mat4 uMvp;
    mat4 uModel;
    mat4 uLightVp;
    vec4 uCameraPos;
    vec4 uLightDir;
    vec4 uLightColor;
    vec4 uBaseColor;
    vec4 uParams;
};
`

var glslSources = map[string]string{
	shaderGeometry: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUv;
layout(location = 3) in vec3 aTangent;
out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUv;
void main() {
    gl_Position = uMvp * vec4(aPos, 1.0);
    vWorldPos = (uModel * vec4(aPos, 1.0)).xyz;
    vNormal = normalize((uModel * vec4(aNormal, 0.0)).xyz);
    vUv = aUv;
}
#endif
#ifdef FRAGMENT_SHADER
uniform sampler2D uTex0;
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUv;
out vec4 fragColor;
void main() {
    vec4 albedo = texture(uTex0, vUv) * uBaseColor;
    vec3 n = normalize(vNormal);
    vec3 l = normalize(-uLightDir.xyz);
    float diffuse = max(dot(n, l), 0.0);
    float ambient = 0.15 * uParams.z;
    vec3 lit = albedo.rgb * (ambient + diffuse) * uLightColor.rgb;
    fragColor = vec4(lit + uParams.w * albedo.rgb, albedo.a);
}
#endif
`,

	shaderShadow: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
void main() {
    gl_Position = uMvp * vec4(aPos, 1.0);
}
#endif
#ifdef FRAGMENT_SHADER
void main() {}
#endif
`,

	shaderPost: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
layout(location = 2) in vec2 aUv;
out vec2 vUv;
void main() {
    gl_Position = vec4(aPos.xy, 0.0, 1.0);
    vUv = aUv;
}
#endif
#ifdef FRAGMENT_SHADER
uniform sampler2D uTex0;
in vec2 vUv;
out vec4 fragColor;
void main() {
    vec3 color = texture(uTex0, vUv).rgb;
    if (uParams.x > 0.5) {
        color = color / (color + vec3(1.0));
    }
    fragColor = vec4(color, 1.0);
}
#endif
`,

	shaderGBufferPos: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
out vec3 vWorldPos;
void main() {
    gl_Position = uMvp * vec4(aPos, 1.0);
    vWorldPos = (uModel * vec4(aPos, 1.0)).xyz;
}
#endif
#ifdef FRAGMENT_SHADER
in vec3 vWorldPos;
out vec4 fragColor;
void main() {
    fragColor = vec4(vWorldPos, 1.0);
}
#endif
`,

	shaderGBufferNormal: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
out vec3 vNormal;
void main() {
    gl_Position = uMvp * vec4(aPos, 1.0);
    vNormal = normalize((uModel * vec4(aNormal, 0.0)).xyz);
}
#endif
#ifdef FRAGMENT_SHADER
in vec3 vNormal;
out vec4 fragColor;
void main() {
    fragColor = vec4(normalize(vNormal), 1.0);
}
#endif
`,

	shaderGBufferAlbedo: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
layout(location = 2) in vec2 aUv;
out vec2 vUv;
void main() {
    gl_Position = uMvp * vec4(aPos, 1.0);
    vUv = aUv;
}
#endif
#ifdef FRAGMENT_SHADER
uniform sampler2D uTex0;
in vec2 vUv;
out vec4 fragColor;
void main() {
    fragColor = texture(uTex0, vUv) * uBaseColor;
}
#endif
`,

	shaderDeferredLight: glslUniforms + `
#ifdef VERTEX_SHADER
layout(location = 0) in vec3 aPos;
layout(location = 2) in vec2 aUv;
out vec2 vUv;
void main() {
    gl_Position = vec4(aPos.xy, 0.0, 1.0);
    vUv = aUv;
}
#endif
#ifdef FRAGMENT_SHADER
uniform sampler2D uTex0;
uniform sampler2D uTex1;
uniform sampler2D uTex2;
in vec2 vUv;
out vec4 fragColor;
void main() {
    vec4 albedo = texture(uTex2, vUv);
    vec3 n = normalize(texture(uTex1, vUv).xyz);
    vec3 l = normalize(-uLightDir.xyz);
    float diffuse = max(dot(n, l), 0.0);
    vec3 lit = albedo.rgb * (0.15 + diffuse) * uLightColor.rgb;
    fragColor = vec4(lit, 1.0);
}
#endif
`,
}
