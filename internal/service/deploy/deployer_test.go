package deploy

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"cdkdeploy/internal/prompt"
	"cdkdeploy/internal/service/cdk"
	"cdkdeploy/internal/service/params"
	"cdkdeploy/internal/service/stacks"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder は各フェイクの呼び出し順を記録する
type recorder struct {
	events []string
}

func (r *recorder) add(e string) { r.events = append(r.events, e) }

type fakeRemote struct {
	rec       *recorder
	loaded    params.Parameters
	loadErr   error
	written   params.Parameters
	overwrite bool
	writes    int
}

func (f *fakeRemote) Load(context.Context, string, string) (params.Parameters, error) {
	f.rec.add("remote.load")
	return f.loaded, f.loadErr
}

func (f *fakeRemote) Write(_ context.Context, _, _ string, p params.Parameters, overwrite bool) error {
	f.rec.add("remote.write")
	f.written = p
	f.overwrite = overwrite
	f.writes++
	return nil
}

type fakeLocal struct {
	rec     *recorder
	loaded  params.Parameters
	written params.Parameters
	writes  int
}

func (f *fakeLocal) Load(string, string) (params.Parameters, error) {
	f.rec.add("local.load")
	if f.loaded == nil {
		return nil, errors.WithStack(params.ErrLocalCacheNotFound)
	}
	return f.loaded, nil
}

func (f *fakeLocal) Write(_, _ string, p params.Parameters) error {
	f.rec.add("local.write")
	f.written = p
	f.writes++
	return nil
}

type fakeIndex struct {
	index stacks.Index
}

func (f *fakeIndex) Discover(context.Context, string) (stacks.Index, error) {
	return f.index, nil
}

// fakePrompter はあらかじめ用意した応答を順に返す
type fakePrompter struct {
	rec       *recorder
	selects   []string
	multi     [][]string
	inputs    []string
	confirms  []bool
	fields    []map[string]string
	gotFields [][]prompt.Field
}

var errUnexpectedPrompt = errors.New("unexpected prompt")

func (f *fakePrompter) Select(message string, choices []string) (string, error) {
	f.rec.add("select:" + message)
	if len(f.selects) == 0 {
		return "", errUnexpectedPrompt
	}
	v := f.selects[0]
	f.selects = f.selects[1:]
	return v, nil
}

func (f *fakePrompter) MultiSelect(message string, _ []string) ([]string, error) {
	f.rec.add("multiselect")
	if len(f.multi) == 0 {
		return nil, errUnexpectedPrompt
	}
	v := f.multi[0]
	f.multi = f.multi[1:]
	return v, nil
}

func (f *fakePrompter) Input(string, string) (string, error) {
	f.rec.add("input")
	if len(f.inputs) == 0 {
		return "", errUnexpectedPrompt
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakePrompter) Confirm(message string) (bool, error) {
	f.rec.add("confirm:" + message)
	if len(f.confirms) == 0 {
		return false, errUnexpectedPrompt
	}
	v := f.confirms[0]
	f.confirms = f.confirms[1:]
	return v, nil
}

func (f *fakePrompter) Fields(_ string, fields []prompt.Field) (map[string]string, error) {
	f.rec.add("fields")
	f.gotFields = append(f.gotFields, fields)
	if len(f.fields) == 0 {
		return nil, errUnexpectedPrompt
	}
	v := f.fields[0]
	f.fields = f.fields[1:]
	return v, nil
}

type fakeToolkit struct {
	rec        *recorder
	listed     []string
	listArgs   []string
	diffArgs   []string
	deployed   []string
	deployArgs []string
	envKeys    []string
	result     cdk.Result
}

func (f *fakeToolkit) List(_ context.Context, envKey string, args []string) ([]string, error) {
	f.rec.add("cdk.list")
	f.envKeys = append(f.envKeys, envKey)
	f.listArgs = args
	return f.listed, nil
}

func (f *fakeToolkit) Diff(_ context.Context, envKey string, args []string) cdk.Result {
	f.rec.add("cdk.diff")
	f.envKeys = append(f.envKeys, envKey)
	f.diffArgs = args
	return cdk.ResultSuccess
}

func (f *fakeToolkit) Deploy(_ context.Context, envKey string, targets, args []string) cdk.Result {
	f.rec.add("cdk.deploy")
	f.envKeys = append(f.envKeys, envKey)
	f.deployed = targets
	f.deployArgs = args
	if f.result == "" {
		return cdk.ResultSuccess
	}
	return f.result
}

type harness struct {
	rec     *recorder
	remote  *fakeRemote
	local   *fakeLocal
	index   *fakeIndex
	prompt  *fakePrompter
	toolkit *fakeToolkit
	out     *bytes.Buffer
	dir     string
}

func newHarness(t *testing.T, defaults string) *harness {
	t.Helper()
	dir := t.TempDir()
	if defaults != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, params.DefaultFileName), []byte(defaults), 0o644))
	}
	rec := &recorder{}
	return &harness{
		rec:     rec,
		remote:  &fakeRemote{rec: rec},
		local:   &fakeLocal{rec: rec},
		index:   &fakeIndex{index: stacks.Index{}},
		prompt:  &fakePrompter{rec: rec},
		toolkit: &fakeToolkit{rec: rec, listed: []string{"DevS3Stack", "DevRoleStack"}},
		out:     &bytes.Buffer{},
		dir:     dir,
	}
}

func (h *harness) run(args ...string) (*Outcome, error) {
	d := NewDeployer(Options{
		WorkDir: h.dir,
		Args:    args,
		Out:     h.out,
	}, h.remote, h.local, h.index, h.prompt, h.toolkit)
	return d.Run(context.Background())
}

func indexOf(events []string, e string) int {
	for i, v := range events {
		if v == e {
			return i
		}
	}
	return -1
}

func TestRun_NewEnvironmentEditsBeforeWriting(t *testing.T) {
	h := newHarness(t, "removalPolicy=retain\n")
	h.prompt.selects = []string{NewStacksChoice}
	h.prompt.inputs = []string{"dev"}
	h.prompt.fields = []map[string]string{{}}
	h.prompt.confirms = []bool{true, true}
	h.prompt.multi = [][]string{{}, {"DevS3Stack"}}

	outcome, err := h.run("--profile", "sandbox")
	require.NoError(t, err)

	assert.Equal(t, "Dev", outcome.EnvKey)
	assert.True(t, outcome.IsNew)
	assert.Equal(t, params.Parameters{"removalPolicy": "retain"}, outcome.Parameters)

	// 編集プロンプトがどの書き込みよりも先に出る
	events := h.rec.events
	fields := indexOf(events, "fields")
	require.NotEqual(t, -1, fields)
	assert.Less(t, fields, indexOf(events, "remote.write"))
	assert.Less(t, fields, indexOf(events, "local.write"))

	assert.Equal(t, params.Parameters{"removalPolicy": "retain"}, h.remote.written)
	assert.False(t, h.remote.overwrite)
	assert.Equal(t, params.Parameters{"removalPolicy": "retain"}, h.local.written)
	assert.Equal(t, []prompt.Field{{Name: "removalPolicy", Message: "retain"}}, h.prompt.gotFields[0])

	// 空選択は再度選択させる
	assert.Equal(t, 2, countOf(events, "multiselect"))
	assert.Equal(t, []string{"DevS3Stack"}, h.toolkit.deployed)
	assert.Equal(t, []string{"--profile", "sandbox"}, h.toolkit.deployArgs)
	assert.Equal(t, cdk.ResultSuccess, outcome.Diff)
	assert.Equal(t, cdk.ResultSuccess, outcome.Deploy)
	for _, k := range h.toolkit.envKeys {
		assert.Equal(t, "Dev", k)
	}
}

func countOf(events []string, e string) int {
	n := 0
	for _, v := range events {
		if v == e {
			n++
		}
	}
	return n
}

func TestRun_NewEnvironmentRejectsExistingName(t *testing.T) {
	h := newHarness(t, "#REMOVAL_POLICY=retain\n")
	h.index.index = stacks.Index{"Prod": {"ProdS3Stack"}}
	h.prompt.selects = []string{NewStacksChoice}
	h.prompt.inputs = []string{"prod", "staging"}
	h.prompt.confirms = []bool{true}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	outcome, err := h.run()
	require.NoError(t, err)

	assert.Equal(t, "Staging", outcome.EnvKey)
	assert.Equal(t, 2, countOf(h.rec.events, "input"))
	assert.Contains(t, h.out.String(), "CdkEnvKey [Prod] already exists")
	// 空のデフォルトは編集をスキップする
	assert.Contains(t, h.out.String(), "deploy parameter editing will be skipped.")
	assert.Equal(t, params.Parameters{}, h.remote.written)
	assert.Equal(t, params.Parameters{}, h.local.written)
}

func TestRun_NewEnvironmentUsesLocalCache(t *testing.T) {
	h := newHarness(t, "removalPolicy=retain\nvpcId=\n")
	h.local.loaded = params.Parameters{"removalPolicy": "destroy", "obsolete": "x"}
	h.prompt.selects = []string{NewStacksChoice}
	h.prompt.inputs = []string{"Dev"}
	h.prompt.fields = []map[string]string{{"vpcId": "vpc-1"}}
	h.prompt.confirms = []bool{true, true}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	outcome, err := h.run()
	require.NoError(t, err)

	assert.Equal(t, params.Parameters{"removalPolicy": "destroy", "vpcId": "vpc-1"}, outcome.Parameters)
	assert.True(t, h.remote.overwrite)
	assert.Equal(t, -1, indexOf(h.rec.events, "remote.load"))
}

func TestRun_ExistingEnvironmentNoChange(t *testing.T) {
	h := newHarness(t, "removalPolicy=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack", "DevRoleStack"}, "SINGLETON__Shared": {"Shared"}}
	h.remote.loaded = params.Parameters{"removalPolicy": "destroy"}
	h.prompt.selects = []string{"Dev", ShowParametersChoice, NoChangeChoice}
	h.prompt.confirms = []bool{true}
	h.prompt.multi = [][]string{{"DevS3Stack", "DevRoleStack"}}

	outcome, err := h.run()
	require.NoError(t, err)

	assert.False(t, outcome.IsNew)
	assert.Equal(t, params.Parameters{"removalPolicy": "destroy"}, outcome.Parameters)
	assert.Equal(t, 0, h.remote.writes)
	assert.Equal(t, params.Parameters{"removalPolicy": "destroy"}, h.local.written)
	assert.Contains(t, h.out.String(), `"removalPolicy": "destroy"`)
	assert.Equal(t, -1, indexOf(h.rec.events, "fields"))
}

func TestRun_ExistingEnvironmentKeyDriftForcesEdit(t *testing.T) {
	h := newHarness(t, "removalPolicy=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack"}}
	h.remote.loaded = params.Parameters{"bucketName": "old"}
	h.prompt.selects = []string{"Dev"}
	h.prompt.fields = []map[string]string{{"removalPolicy": "destroy"}, {}}
	h.prompt.confirms = []bool{false, true, true}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	outcome, err := h.run("--skip-diff", "-c", "stage=dev")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "default parameters changed since the latest deployment.")
	assert.Equal(t, 2, countOf(h.rec.events, "fields"))
	assert.Equal(t, "destroy", h.prompt.gotFields[1][0].Message)
	assert.Equal(t, params.Parameters{"removalPolicy": "destroy"}, outcome.Parameters)
	assert.True(t, h.remote.overwrite)
	assert.Equal(t, 1, h.remote.writes)

	// --skip-diff はcdkへ渡さず、diffも実行しない
	assert.Equal(t, -1, indexOf(h.rec.events, "cdk.diff"))
	assert.Equal(t, []string{"-c", "stage=dev"}, h.toolkit.listArgs)
	assert.Equal(t, []string{"-c", "stage=dev"}, h.toolkit.deployArgs)
	assert.Empty(t, outcome.Diff)
	assert.Contains(t, h.out.String(), "skip diff.")
}

func TestRun_RemoteErrorTreatedAsNoPriorState(t *testing.T) {
	h := newHarness(t, "removalPolicy=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack"}}
	h.remote.loadErr = errors.New("ParameterNotFound")
	h.prompt.selects = []string{"Dev"}
	h.prompt.fields = []map[string]string{{}}
	h.prompt.confirms = []bool{true, true}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	_, err := h.run()
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "error occurred in get ssm parameters.")
	assert.False(t, h.remote.overwrite)
	assert.Equal(t, params.Parameters{"removalPolicy": "retain"}, h.local.written)
}

func TestRun_EmptyDefaultsSkipChangePrompt(t *testing.T) {
	h := newHarness(t, "")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack"}}
	h.remote.loaded = params.Parameters{}
	h.prompt.selects = []string{"Dev"}
	h.prompt.confirms = []bool{true}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	outcome, err := h.run()
	require.NoError(t, err)

	// デフォルトファイルが作成される
	assert.FileExists(t, filepath.Join(h.dir, params.DefaultFileName))
	assert.Equal(t, params.Parameters{}, outcome.Parameters)
	assert.Equal(t, 1, countOf(h.rec.events, "select:select CdkEnvKey to deploy"))
	assert.Equal(t, -1, indexOf(h.rec.events, "select:change aws-cdk deploy parameters?"))
	assert.Equal(t, 0, h.remote.writes)
	assert.Equal(t, 1, h.local.writes)
}

func TestRun_UnmanagedStacksDeclined(t *testing.T) {
	h := newHarness(t, "removalPolicy=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack", "DevLegacyStack"}}
	h.remote.loaded = params.Parameters{"removalPolicy": "retain"}
	h.prompt.selects = []string{"Dev", NoChangeChoice}
	h.prompt.confirms = []bool{false}

	outcome, err := h.run()
	require.NoError(t, err)

	assert.True(t, outcome.Aborted)
	assert.Contains(t, h.out.String(), "DevLegacyStack")
	assert.Equal(t, -1, indexOf(h.rec.events, "cdk.diff"))
	assert.Equal(t, -1, indexOf(h.rec.events, "cdk.deploy"))
	assert.Equal(t, -1, indexOf(h.rec.events, "multiselect"))
}

func TestRun_DeployDeclined(t *testing.T) {
	h := newHarness(t, "#REMOVAL_POLICY=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack"}}
	h.remote.loaded = params.Parameters{}
	h.prompt.selects = []string{"Dev"}
	h.prompt.confirms = []bool{false}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	outcome, err := h.run()
	require.NoError(t, err)
	assert.True(t, outcome.Aborted)
	assert.Equal(t, -1, indexOf(h.rec.events, "cdk.deploy"))
}

func TestRun_DeployFailed(t *testing.T) {
	h := newHarness(t, "#REMOVAL_POLICY=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack"}}
	h.remote.loaded = params.Parameters{}
	h.toolkit.result = cdk.ResultFailed
	h.prompt.selects = []string{"Dev"}
	h.prompt.confirms = []bool{true}
	h.prompt.multi = [][]string{{"DevS3Stack"}}

	outcome, err := h.run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeployFailed))
	require.NotNil(t, outcome)
	assert.Equal(t, cdk.ResultFailed, outcome.Deploy)
	assert.NotContains(t, h.out.String(), "AWS-CDK Deploy Tool End.")
}

func TestRun_NoStacksListed(t *testing.T) {
	h := newHarness(t, "#REMOVAL_POLICY=retain\n")
	h.index.index = stacks.Index{"Dev": {"DevS3Stack"}}
	h.remote.loaded = params.Parameters{}
	h.toolkit.listed = nil
	h.prompt.selects = []string{"Dev"}

	_, err := h.run()
	assert.True(t, errors.Is(err, ErrNoStacks))
}
