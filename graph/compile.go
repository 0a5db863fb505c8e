package graph

import (
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Compile lowers the graph into an ffmpeg-go output stream ready to run.
// encodeArgs carries the codec/bitrate/thread parameters; everything
// structural comes from the graph itself. Compiling does not touch the
// graph, so a graph can be compiled more than once.
func (g *Graph) Compile(encodeArgs ffmpeg.KwArgs) (*ffmpeg.Stream, error) {
	return g.compileNode(g.output, encodeArgs)
}

func (g *Graph) compileNode(id NodeID, encodeArgs ffmpeg.KwArgs) (*ffmpeg.Stream, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}

	inputs := make([]*ffmpeg.Stream, 0, len(node.Inputs))
	for _, in := range node.Inputs {
		s, err := g.compileNode(in, encodeArgs)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, s)
	}

	switch node.Kind {
	case KindInput:
		return ffmpeg.Input(node.Args["path"]), nil

	case KindCrop:
		return inputs[0].Filter("crop", ffmpeg.Args{node.Args["w"], node.Args["h"]}), nil

	case KindScale:
		return inputs[0].Filter("scale", ffmpeg.Args{node.Args["w"], node.Args["h"]}), nil

	case KindColorMix:
		return inputs[0].Filter("colorchannelmixer", ffmpeg.Args{}, ffmpeg.KwArgs{"aa": node.Args["aa"]}), nil

	case KindOverlay:
		return inputs[0].Overlay(inputs[1], "", ffmpeg.KwArgs{
			"x":      node.Args["x"],
			"y":      node.Args["y"],
			"enable": node.Args["enable"],
		}), nil

	case KindDrawText:
		kw := ffmpeg.KwArgs{
			"text":      node.Args["text"],
			"x":         node.Args["x"],
			"y":         node.Args["y"],
			"fontsize":  node.Args["fontsize"],
			"fontcolor": node.Args["fontcolor"],
		}
		if fontFile, ok := node.Args["fontfile"]; ok {
			kw["fontfile"] = fontFile
		}
		return inputs[0].Filter("drawtext", ffmpeg.Args{}, kw), nil

	case KindConcatAudio:
		return ffmpeg.Concat(inputs, ffmpeg.KwArgs{"a": 1, "v": 0}), nil

	case KindMixAudio:
		volume, err := strconv.ParseFloat(node.Args["volume"], 64)
		if err != nil {
			return nil, fmt.Errorf("mix_audio volume %q: %w", node.Args["volume"], err)
		}
		scaled := inputs[1].Filter("volume", ffmpeg.Args{formatNumber(volume)})
		return ffmpeg.Filter([]*ffmpeg.Stream{inputs[0], scaled}, "amix", ffmpeg.Args{},
			ffmpeg.KwArgs{"duration": node.Args["duration"]}), nil

	case KindOutput:
		return ffmpeg.Output(inputs, node.Args["path"], encodeArgs), nil
	}

	return nil, fmt.Errorf("unknown node kind %q", node.Kind)
}
