package splot

// WGSL sources for the render pipelines. Points render as instanced
// screen-aligned quads (WebGPU point primitives are fixed at one pixel);
// the fragment stage discards outside a unit-circle mask. The uniform
// block layout must match gpudev.Uniforms.

const shaderCommonWGSL = `
struct Uniforms {
    transform: mat4x4<f32>,
    point_scale: f32,
    shade: f32,
    viewport: vec2<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;

fn quad_corner(vi: u32) -> vec2<f32> {
    var corner = vec2<f32>(-1.0, -1.0);
    switch vi {
        case 1u, 4u: { corner = vec2<f32>(1.0, -1.0); }
        case 2u, 3u: { corner = vec2<f32>(-1.0, 1.0); }
        case 5u: { corner = vec2<f32>(1.0, 1.0); }
        default: {}
    }
    return corner;
}
`

// pointShaderWGSL is the main pass: anti-aliased circular sprites with a
// darker highlight ring and an optional sphere-like shading term in 3D.
const pointShaderWGSL = shaderCommonWGSL + `
struct VSOut {
    @builtin(position) pos: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) local: vec2<f32>,
    @location(2) flags: f32,
};

@vertex
fn vs_main(
    @builtin(vertex_index) vi: u32,
    @location(0) pos: vec3<f32>,
    @location(1) color: vec4<f32>,
    @location(2) pick: vec3<f32>,
    @location(3) size: f32,
    @location(4) flags: f32,
) -> VSOut {
    let corner = quad_corner(vi);
    let clip = u.transform * vec4<f32>(pos, 1.0);
    let radius = size * u.point_scale * 0.5;
    let offset = corner * radius * 2.0 / u.viewport * clip.w;

    var out: VSOut;
    out.pos = vec4<f32>(clip.xy + offset, clip.zw);
    out.color = color;
    out.local = corner;
    out.flags = flags;
    return out;
}

@fragment
fn fs_main(in: VSOut) -> @location(0) vec4<f32> {
    let d = length(in.local);
    if (d > 1.0) {
        discard;
    }
    let aa = fwidth(d);
    let cov = 1.0 - smoothstep(1.0 - aa, 1.0, d);

    var rgb = in.color.rgb;
    if (in.flags >= 0.5 && d > 0.7) {
        rgb = rgb * 0.45;
    }
    if (u.shade > 0.0) {
        rgb = rgb * (0.6 + 0.4 * (1.0 - d * d));
    }
    // Premultiplied alpha for the blend state.
    let a = in.color.a * cov;
    return vec4<f32>(rgb * a, a);
}
`

// pickShaderWGSL is the picking pass: flat identity colors, hard edge.
// Anti-aliasing would blend neighbouring identities into nonsense.
const pickShaderWGSL = shaderCommonWGSL + `
struct VSOut {
    @builtin(position) pos: vec4<f32>,
    @location(0) pick: vec3<f32>,
    @location(1) local: vec2<f32>,
};

@vertex
fn vs_main(
    @builtin(vertex_index) vi: u32,
    @location(0) pos: vec3<f32>,
    @location(1) color: vec4<f32>,
    @location(2) pick: vec3<f32>,
    @location(3) size: f32,
    @location(4) flags: f32,
) -> VSOut {
    let corner = quad_corner(vi);
    let clip = u.transform * vec4<f32>(pos, 1.0);
    let radius = size * u.point_scale * 0.5;
    let offset = corner * radius * 2.0 / u.viewport * clip.w;

    var out: VSOut;
    out.pos = vec4<f32>(clip.xy + offset, clip.zw);
    out.pick = pick;
    out.local = corner;
    return out;
}

@fragment
fn fs_main(in: VSOut) -> @location(0) vec4<f32> {
    if (length(in.local) > 1.0) {
        discard;
    }
    return vec4<f32>(in.pick, 1.0);
}
`

// lineShaderWGSL draws grid and axis line segments.
const lineShaderWGSL = shaderCommonWGSL + `
struct VSOut {
    @builtin(position) pos: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(
    @location(0) pos: vec3<f32>,
    @location(1) color: vec4<f32>,
) -> VSOut {
    var out: VSOut;
    out.pos = u.transform * vec4<f32>(pos, 1.0);
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VSOut) -> @location(0) vec4<f32> {
    return in.color;
}
`
