package scene

import "github.com/MKhiriev/go-sync-framework/models"

// World transforms compose translation, rotation and non-uniform scale
// down the parent chain. Shear from rotated non-uniform parents is ignored.

func (o *Object) LocalPosition() models.Vec3 { return o.localPos }

func (o *Object) SetLocalPosition(v models.Vec3) { o.localPos = v }

func (o *Object) LocalRotation() models.Quat { return o.localRot }

func (o *Object) SetLocalRotation(q models.Quat) { o.localRot = q }

func (o *Object) LocalScale() models.Vec3 { return o.localScale }

func (o *Object) SetLocalScale(v models.Vec3) { o.localScale = v }

func (o *Object) WorldPosition() models.Vec3 {
	if o.parent == nil {
		return o.localPos
	}
	p := o.parent
	return p.WorldPosition().Add(p.WorldRotation().Rotate(p.WorldScale().Mul(o.localPos)))
}

func (o *Object) SetWorldPosition(v models.Vec3) {
	if o.parent == nil {
		o.localPos = v
		return
	}
	p := o.parent
	o.localPos = p.WorldRotation().Invert().Rotate(v.Sub(p.WorldPosition())).Div(p.WorldScale())
}

func (o *Object) WorldRotation() models.Quat {
	if o.parent == nil {
		return o.localRot
	}
	return o.parent.WorldRotation().Mul(o.localRot)
}

func (o *Object) SetWorldRotation(q models.Quat) {
	if o.parent == nil {
		o.localRot = q
		return
	}
	o.localRot = o.parent.WorldRotation().Invert().Mul(q)
}

func (o *Object) WorldScale() models.Vec3 {
	if o.parent == nil {
		return o.localScale
	}
	return o.parent.WorldScale().Mul(o.localScale)
}

func (o *Object) SetWorldScale(v models.Vec3) {
	if o.parent == nil {
		o.localScale = v
		return
	}
	o.localScale = v.Div(o.parent.WorldScale())
}
