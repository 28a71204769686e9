package testutil

const vuePackageJSON = `{
  "name": "vue",
  "version": "3.5.0",
  "types": "index.d.ts"
}
`

// VueTypes is a reduced copy of Vue's component typings: defineComponent,
// DefineComponent with its eight type parameters, PropType and
// ExtractPropTypes. Primitive constructors are inferred first so prop value
// types stay stable.
const VueTypes = `type Data = Record<string, unknown>

type PropMethod<T, TConstructor = any> = [T] extends [((...args: any) => any) | undefined]
  ? { new (): TConstructor; (): T; readonly prototype: TConstructor }
  : never

export type PropConstructor<T = any> =
  | { new (...args: any[]): T & {} }
  | { (): T }
  | PropMethod<T>

export type PropType<T> = PropConstructor<T> | (PropConstructor<T> | null)[]

export interface PropOptions<T = any, D = T> {
  type?: PropType<T> | true | null
  required?: boolean
  default?: D | null | undefined | object
  validator?(value: unknown, props: Data): boolean
}

export type Prop<T, D = T> = PropOptions<T, D> | PropType<T>

type IfAny<T, Y, N> = 0 extends 1 & T ? Y : N

type InferPropType<T> = [T] extends [null]
  ? any
  : [T] extends [{ type: null | true }]
    ? any
    : [T] extends [StringConstructor | { type: StringConstructor }]
      ? string
      : [T] extends [NumberConstructor | { type: NumberConstructor }]
        ? number
        : [T] extends [BooleanConstructor | { type: BooleanConstructor }]
          ? boolean
          : [T] extends [DateConstructor | { type: DateConstructor }]
            ? Date
            : [T] extends [ObjectConstructor | { type: ObjectConstructor }]
              ? Record<string, any>
              : [T] extends [Prop<infer V, infer D>]
                ? unknown extends V
                  ? IfAny<V, V, D>
                  : V
                : T

type RequiredKeys<T> = {
  [K in keyof T]: T[K] extends
    | { required: true }
    | { default: any }
    | BooleanConstructor
    | { type: BooleanConstructor }
    ? K
    : never
}[keyof T]

type OptionalKeys<T> = Exclude<keyof T, RequiredKeys<T>>

export type ExtractPropTypes<O> = {
  readonly [K in RequiredKeys<O>]: InferPropType<O[K]>
} & {
  readonly [K in OptionalKeys<O>]?: InferPropType<O[K]>
}

export type EmitsOptions = Record<string, ((...args: any[]) => any) | null> | string[]

export type DefineComponent<
  Props = {},
  RawBindings = {},
  D = {},
  C = {},
  M = {},
  Mixin = {},
  Extends = {},
  E = {},
> = {
  new (...args: any[]): {
    $props: ExtractPropTypes<Props>
    $setup: RawBindings
    $data: D
    $computed: C
    $methods: M
    $mixin: Mixin
    $extends: Extends
    $emits: E
  }
}

export declare function defineComponent<
  Props extends Record<string, any> = {},
  E extends Record<string, any> = {},
>(options: {
  name?: string
  props?: Props
  emits?: E
  setup?: (props: ExtractPropTypes<Props>, ctx: { emit: (event: string, ...args: any[]) => void }) => any
  [key: string]: any
}): DefineComponent<Props, {}, {}, {}, {}, {}, {}, E>
`
