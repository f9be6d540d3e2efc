// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ApplicationNotFoundId Id = iota + 1
	NoConventionId
	UnknownConventionId
	NoLibraryDirectoryId
	MissingAnchorId
	InvalidScriptId
	SubprocessFailureId
	MissingJavaHomeId
	MalformedVersionId
	ConfigLoadFailedId
	PermissionDeniedId
	UnexplodedArchiveId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message followed by a "See also" list of links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue for the terminal using a glamour style
// ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	applicationNotFoundIssue = &Issue{
		id: ApplicationNotFoundId,
		mdMsg: `
# Application directory not found!

The application root passed to jbp does not exist or is not a directory.

## Things you can try:
- Pass the directory the application was unpacked into:
~~~
$ jbp detect /tmp/app
~~~
- Check that the droplet was unpacked before running jbp`,
	}

	noConventionIssue = &Issue{
		id: NoConventionId,
		mdMsg: `
# No packaging convention matches this application!

jbp recognizes these layouts:

| Convention | Marker |
|---|---|
| spring-boot-thin | ` + "`Main-Class: ...ThinJarWrapper`" + ` in META-INF/MANIFEST.MF |
| spring-boot-exploded | ` + "`Spring-Boot-Version`" + ` or a Spring Boot launcher Main-Class |
| spring-boot-fat-jar | a single jar or war at the root with Spring Boot manifest entries |
| spring-boot-staged | ` + "`lib/spring-boot-*.jar`" + ` |
| play-dist-2.0 / 2.1 | one directory holding ` + "`start`" + ` and ` + "`lib/*play_*.jar`" + ` |
| play-dist-2.2+ | ` + "`bin/<app>`" + ` and ` + "`lib/*play_*.jar`" + ` |

## Things you can try:
- List what jbp sees with ` + "`jbp detect --all <app>`" + `
- Check that none of the matching conventions is listed in ` + "`disabled_conventions`",
	}

	unknownConventionIssue = &Issue{
		id: UnknownConventionId,
		mdMsg: `
# Unknown packaging convention!

A convention name in your configuration is not recognized.

## Things you can try:
- Run ` + "`jbp config show`" + ` to see the active configuration
- Use one of: spring-boot-thin, spring-boot-exploded, spring-boot-fat-jar,
  spring-boot-staged, play-dist-2.0, play-dist-2.1, play-dist-2.2+`,
	}

	noLibraryDirectoryIssue = &Issue{
		id: NoLibraryDirectoryId,
		mdMsg: `
# No library directory found!

The application was recognized, but none of the dependency directories exist.

## Search order:
1. ` + "`Spring-Boot-Lib`" + ` in META-INF/MANIFEST.MF
2. BOOT-INF/lib
3. WEB-INF/lib
4. lib

## Things you can try:
- Repackage the application with the Spring Boot build plugin
- Declare the directory with a ` + "`Spring-Boot-Lib`" + ` manifest entry`,
		extLinks: []HttpLink{"https://docs.spring.io/spring-boot/specification/executable-jar/"},
	}

	missingAnchorIssue = &Issue{
		id: MissingAnchorId,
		mdMsg: `
# Start script has no classpath line!

The start script was expected to assign the classpath on a single line, such as:
~~~sh
classpath="$scriptdir/lib/app.jar"
~~~
or, for Play 2.2 and later:
~~~sh
declare -r app_classpath="$lib_dir/app.jar"
~~~

## Things you can try:
- Regenerate the dist with ` + "`play dist`" + ` or ` + "`sbt dist`" + `
- Do not edit the generated start script by hand`,
		extLinks: []HttpLink{"https://www.playframework.com/documentation/latest/Deploying"},
	}

	invalidScriptIssue = &Issue{
		id: InvalidScriptId,
		mdMsg: `
# Rewriting the start script would break it!

Adding the libraries to the classpath produced a script that no longer parses.
The script was left untouched.

## Things you can try:
- Check additional library paths for quotes or other shell metacharacters
- Run with ` + "`--verbose`" + ` to see the parse error`,
	}

	subprocessFailureIssue = &Issue{
		id: SubprocessFailureId,
		mdMsg: `
# Caching thin dependencies failed!

The thin launcher exited with a non-zero status while resolving dependencies.

## Things you can try:
- Check that the Java home points at a working JRE:
~~~
$ jbp java-home
~~~
- Make sure the dependency repositories are reachable from the build
- Run the thin launcher by hand with ` + "`-Dthin.dryrun`" + ` to see its output`,
		extLinks: []HttpLink{"https://github.com/spring-projects-experimental/spring-boot-thin-launcher"},
	}

	missingJavaHomeIssue = &Issue{
		id: MissingJavaHomeId,
		mdMsg: `
# No Java home configured!

Thin applications need a JRE to pre-cache their dependencies.

## Things you can try:
- Pass ` + "`--java-home /path/to/jre`" + `
- Set ` + "`java_home`" + ` in your config or the ` + "`JBP_JAVA_HOME`" + ` environment variable`,
	}

	malformedVersionIssue = &Issue{
		id: MalformedVersionId,
		mdMsg: `
# Malformed version!

Versions must be dotted triplets, optionally followed by a qualifier:
~~~
1.8.0
1.8.0_292
17.0.2-RC1
~~~
Wildcards (` + "`+`" + `) are only allowed as the last component of a comparison target.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

jbp could not load its configuration file.

## Things you can try:
- Check the file against the schema:
~~~
$ jbp config show
~~~
- Regenerate a default file:
~~~
$ jbp config init
~~~
- Environment variables use the ` + "`JBP_`" + ` prefix, e.g. ` + "`JBP_THIN_ROOT`",
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

jbp could not read or modify a file in the droplet.

## Things you can try:
- Check the ownership of the droplet directory
- Run jbp as the user that unpacked the application`,
	}

	unexplodedArchiveIssue = &Issue{
		id: UnexplodedArchiveId,
		mdMsg: `
# Libraries cannot be added to an unexploded archive!

The application is a single Spring Boot jar or war. Its launcher only loads
libraries nested inside the archive, so files placed next to it are ignored.

## Things you can try:
- Explode the archive into the application directory before running jbp:
~~~
$ cd /tmp/app && unzip -q demo.jar && rm demo.jar
~~~
- Remove the additional libraries from ` + "`additional_libraries`" + ` and ` + "`--lib`",
		extLinks: []HttpLink{"https://docs.spring.io/spring-boot/specification/executable-jar/"},
	}

	issues = map[Id]*Issue{
		applicationNotFoundIssue.Id(): applicationNotFoundIssue,
		noConventionIssue.Id():        noConventionIssue,
		unknownConventionIssue.Id():   unknownConventionIssue,
		noLibraryDirectoryIssue.Id():  noLibraryDirectoryIssue,
		missingAnchorIssue.Id():       missingAnchorIssue,
		invalidScriptIssue.Id():       invalidScriptIssue,
		subprocessFailureIssue.Id():   subprocessFailureIssue,
		missingJavaHomeIssue.Id():     missingJavaHomeIssue,
		malformedVersionIssue.Id():    malformedVersionIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		unexplodedArchiveIssue.Id():   unexplodedArchiveIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
