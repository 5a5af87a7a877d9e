package gldisplay

const vertex = `
#version 420

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}

`
const fragment = `
#version 420

uniform vec4 on;
uniform vec4 off;

layout (binding = 0) uniform sampler2D frame;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // Lit pixels are stored as 0xff in the red channel, dark ones as 0.
    float lit = step(0.5, texture(frame, fragTexCoord).r);
    outputColor = mix(off, on, lit);
}
`
