// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	ContainerEngineNotFoundId Id = iota + 1
	BuildfileNotFoundId
	BuildfileParseErrorId
	ManifestNotFoundId
	ManifestParseErrorId
	ImageBuildFailedId
	ContainerStartFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# No container engine available!

pydock needs Docker or Podman to build and run images.

## Things you can try:
- Install Docker:
~~~
$ curl -fsSL https://get.docker.com | sh
~~~

- Or install Podman (rootless-friendly):
~~~
$ sudo apt install podman   # Debian/Ubuntu
$ sudo dnf install podman   # Fedora
~~~

- Configure your preferred engine in ~/.config/pydock/config.cue:
~~~cue
container_engine: "podman"  // or "docker"
~~~`,
	}

	buildfileNotFoundIssue = &Issue{
		id: BuildfileNotFoundId,
		mdMsg: `
# No pydock.cue found!

We searched from the current directory upwards but couldn't find a pydock.cue
build description. pydock falls back to defaults (python 3.12, requirements.txt,
main.py) when none exists, so you only need one to change them.

## Things you can try:
- Scaffold a build description in your project directory:
~~~
$ pydock init
~~~

## Example pydock.cue:
~~~cue
name: "gallery"
image: {
	python:     "3.12"
	manifest:   "requirements.txt"
	entrypoint: "manage.py"
}
~~~`,
	}

	buildfileParseErrorIssue = &Issue{
		id: BuildfileParseErrorId,
		mdMsg: `
# Failed to parse pydock.cue!

Your build description contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A python version that is not "major.minor" (e.g. "3.12")

## Things you can try:
- Check the error message above for the specific field path
- Run with verbose mode for more details:
~~~
$ pydock --verbose build
~~~`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Dependency manifest not found!

The manifest (usually requirements.txt) lists the packages installed into the
image. The build stops before touching the container engine when it is missing.

## Things you can try:
- Create a requirements.txt next to your pydock.cue:
~~~
requests==2.31.0
Django>=4.2,<5.0
~~~

- Or point pydock at a different file:
~~~cue
image: manifest: "requirements/prod.txt"
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse the dependency manifest!

One or more lines in the manifest are not valid package specifications.

## Valid line formats:
~~~
requests
requests==2.31.0
Django>=4.2,<5.0
uvicorn[standard]~=0.27
pytest; python_version >= "3.8"
~~~

Comments (#) and blank lines are ignored; long specifications may be
continued with a trailing backslash.`,
	}

	imageBuildFailedIssue = &Issue{
		id: ImageBuildFailedId,
		mdMsg: `
# Image build failed!

The container engine rejected the build. The engine's own output above has the
exact step that failed; pydock performs no retry and keeps no partial image.

## Common causes:
- The pinned base image tag does not exist (check your python version)
- A package in the manifest cannot be resolved by the package index
- Conflicting version constraints between manifest entries

## Things you can try:
- Pull the base image manually to isolate registry problems:
~~~
$ docker pull python:3.12-slim
~~~
- Install the manifest locally to reproduce resolution errors:
~~~
$ pip install -r requirements.txt
~~~`,
	}

	containerStartFailedIssue = &Issue{
		id: ContainerStartFailedId,
		mdMsg: `
# Container failed to start!

The image was built but its foreground process exited immediately.

## Common causes:
- The entry-point script does not exist in the project tree
- The script raises on import (missing dependency, syntax error)

## Things you can try:
- Check which entry point the image declares:
~~~
$ pydock dockerfile
~~~
- Run the script locally with the same interpreter version`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The tool configuration at ~/.config/pydock/config.cue could not be read.
pydock keeps working with built-in defaults.

## Things you can try:
- Show the resolved configuration and its source path:
~~~
$ pydock config
~~~
- Fix or remove the offending file; a minimal config looks like:
~~~cue
container_engine: "docker"
ui: verbose: false
~~~`,
	}

	issues = map[Id]*Issue{
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		buildfileNotFoundIssue.Id():       buildfileNotFoundIssue,
		buildfileParseErrorIssue.Id():     buildfileParseErrorIssue,
		manifestNotFoundIssue.Id():        manifestNotFoundIssue,
		manifestParseErrorIssue.Id():      manifestParseErrorIssue,
		imageBuildFailedIssue.Id():        imageBuildFailedIssue,
		containerStartFailedIssue.Id():    containerStartFailedIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
